// Package logs reads the vdesk log file: the last lines of it, optionally
// filtered to one launch, and new lines as they are appended.
package logs
