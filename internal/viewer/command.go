package viewer

import (
	"os"
	"runtime"
	"strings"
)

// WindowClass is the X11/Wayland class every vdesk viewer window carries.
const WindowClass = "vd-remote-viewer"

// searchPath replaces PATH for the viewer on search-path platforms so GTK
// helpers resolve from system locations rather than the caller's environment.
const searchPath = "/usr/local/bin:/opt/local/bin:/usr/bin:/bin"

// Command describes one remote-viewer invocation.
type Command struct {
	Path string
	// Args holds the artifact path first, followed by flags.
	Args []string
	// Env is the complete child environment.
	Env []string
}

// BuildCommand assembles the remote-viewer invocation for an artifact. The
// artifact path is the only positional argument.
func BuildCommand(viewerPath, artifactPath, machine string, policy Policy) Command {
	args := []string{
		artifactPath,
		"--class=" + WindowClass,
		"--name=vd-viewer-" + machine,
		"--gtk-module=gail:atk-bridge",
		"--auto-resize=never",
		"--spice-disable-audio",
		"--cursor=local",
		"--spice-disable-effects=all",
		"--spice-disable-usbredir",
		"--spice-preferred-compression=lz4",
	}
	if policy.Debug {
		args = append(args, "--debug")
	}
	if policy.Verbose {
		args = append(args, "--verbose")
	}
	return Command{
		Path: viewerPath,
		Args: args,
		Env:  mergeEnv(os.Environ(), envOverrides(runtime.GOOS)),
	}
}

func envOverrides(goos string) [][2]string {
	overrides := [][2]string{
		{"GTK_CSD", "0"},
		{"GTK_THEME", "Adwaita:light"},
		{"GTK2_RC_FILES", ""},
		{"GTK_OVERLAY_SCROLLING", "1"},
		{"GTK_MODULES", ""},
	}
	if goos != "windows" {
		overrides = append(overrides, [2]string{"PATH", searchPath})
	}
	return overrides
}

// mergeEnv replaces or appends each override in base, keeping base order.
func mergeEnv(base []string, overrides [][2]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	index := make(map[string]int, len(base))
	for _, entry := range base {
		key, _, _ := strings.Cut(entry, "=")
		if i, ok := index[key]; ok {
			out[i] = entry
			continue
		}
		index[key] = len(out)
		out = append(out, entry)
	}
	for _, kv := range overrides {
		entry := kv[0] + "=" + kv[1]
		if i, ok := index[kv[0]]; ok {
			out[i] = entry
			continue
		}
		index[kv[0]] = len(out)
		out = append(out, entry)
	}
	return out
}
