// Package account persists the credentials and API endpoint used to reach
// the machine management service.
//
// The account file is YAML by default (keys appid, appsecret, url, name,
// server). A path ending in .toml is read and written as TOML instead. All
// operations on a Store are serialized within the process by a mutex and
// across processes by an advisory lock file next to the account file.
package account
