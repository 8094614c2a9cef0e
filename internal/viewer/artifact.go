package viewer

import (
	"bytes"
	"path/filepath"

	"vdesk/internal/fileutil"
	"vdesk/internal/services"
)

// SectionHeader opens every artifact.
const SectionHeader = "[virt-viewer]"

// ArtifactMode keeps session secrets away from other local users.
const ArtifactMode = 0o640

// ArtifactPath returns the deterministic artifact location for machine inside
// dir. Distinct machine names always map to distinct paths.
func ArtifactPath(dir, machine string) string {
	return filepath.Join(dir, "__vdesk-viewer-"+fileutil.EscapeFileName(machine)+"__.vv")
}

// Render serializes params as a [virt-viewer] section with one key=value
// line per entry, in insertion order.
func Render(params *Params) []byte {
	var buf bytes.Buffer
	buf.WriteString(SectionHeader)
	buf.WriteByte('\n')
	for key, value := range params.All() {
		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(value.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// WriteArtifact renders params into the artifact for machine and returns its path.
func WriteArtifact(dir, machine string, params *Params) (string, error) {
	path := ArtifactPath(dir, machine)
	if err := fileutil.WriteFileAtomic(path, Render(params), ArtifactMode); err != nil {
		return "", services.Wrap(services.ErrFileSystem, "viewer", "write artifact", path, err)
	}
	return path, nil
}
