// Package config loads, normalizes, and validates vdesk configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the VDESK_ACCOUNT_FILE
// environment override. The Config type centralizes the knobs the CLI and the
// session launcher need: where the account record lives, where viewer
// artifacts are written, API timeouts, and the viewer presentation policy.
//
// Credentials are deliberately kept out of this file; see package account.
package config
