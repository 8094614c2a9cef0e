//go:build !windows

package session

import "syscall"

// detachedAttr starts the viewer in its own session so it outlives the
// terminal that launched it.
func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
