// Package services defines shared utilities consumed by the machine API
// client, the session launcher and the command layer.
//
// Key responsibilities:
//   - Context helpers that stamp session correlation identifiers and machine
//     names for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (transport, HTTP status, decoding, viewer lookup, file system, config
//     format) consistently across packages.
//
// Use these helpers when adding new operations so failure reporting stays
// uniform between the API client, the launcher and the CLI.
package services
