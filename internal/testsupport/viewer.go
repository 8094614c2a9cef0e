package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// WithViewerScript writes an executable shell script named remote-viewer
// into a temp directory and returns its path. The script body runs under
// /bin/sh. Tests using it are skipped on Windows.
func WithViewerScript(t testing.TB, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script viewers need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "remote-viewer")
	script := "#!/bin/sh\n" + strings.TrimSpace(body) + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write viewer script: %v", err)
	}
	return path
}

// RecordingViewer returns a viewer script that writes each argument on its
// own line to the returned log file, then exits with code.
func RecordingViewer(t testing.TB, code int) (viewerPath, argLog string) {
	t.Helper()
	argLog = filepath.Join(t.TempDir(), "args.log")
	body := `for arg in "$@"; do printf '%s\n' "$arg" >> '` + argLog + `'; done
exit ` + strconv.Itoa(code)
	return WithViewerScript(t, body), argLog
}

// ReadLines returns the non-empty lines of path.
func ReadLines(t testing.TB, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
