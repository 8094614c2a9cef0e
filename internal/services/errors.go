package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTransport      = errors.New("transport error")
	ErrRequestFailed  = errors.New("request failed")
	ErrDecode         = errors.New("decode error")
	ErrViewerNotFound = errors.New("remote viewer not found")
	ErrFileSystem     = errors.New("file system error")
	ErrConfigFormat   = errors.New("config format error")
	ErrUnknown        = errors.New("unknown error")
)

// markers lists the sentinels in the order Kind checks them.
var markers = []struct {
	err  error
	name string
}{
	{ErrTransport, "transport"},
	{ErrRequestFailed, "request_failed"},
	{ErrDecode, "decode"},
	{ErrViewerNotFound, "viewer_not_found"},
	{ErrFileSystem, "file_system"},
	{ErrConfigFormat, "config_format"},
	{ErrUnknown, "unknown"},
}

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above; a nil marker is treated as ErrUnknown.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrUnknown
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind reports the short name of the first sentinel err matches. Errors that
// carry no marker report "unknown"; nil reports "".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range markers {
		if errors.Is(err, m.err) {
			return m.name
		}
	}
	return "unknown"
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
