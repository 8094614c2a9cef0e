package viewer

import (
	"maps"
	"slices"
)

// Policy holds the client-side presentation defaults layered over the
// server's display parameters and the viewer's command line.
type Policy struct {
	Fullscreen     bool
	DeleteArtifact bool
	Debug          bool
	Verbose        bool
	// Settings are extra key=value lines; they win over everything else.
	Settings map[string]string
}

// Apply injects the session presentation defaults into params: the window
// title, disabled hotkeys, the fullscreen flag, the optional self-delete
// request, then Settings in sorted key order.
func (p Policy) Apply(params *Params, machine string) {
	params.Set("title", StringValue(machine))
	params.Set("hotkeys", StringValue(""))
	params.Set("fullscreen", IntValue(boolInt(p.Fullscreen)))
	if p.DeleteArtifact {
		params.Set("delete-this-file", IntValue(1))
	}
	for _, key := range slices.Sorted(maps.Keys(p.Settings)) {
		params.Set(key, StringValue(p.Settings[key]))
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
