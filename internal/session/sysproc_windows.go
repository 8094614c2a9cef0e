//go:build windows

package session

import "syscall"

const detachedProcessFlag = 0x00000008

// detachedAttr detaches the viewer from the parent console and process group.
func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | detachedProcessFlag,
	}
}
