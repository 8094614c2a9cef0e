package session

import "fmt"

// State is a step of the launch sequence.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateLocking
	StateLocked
	StateFetchingParams
	StateArtifactWritten
	StateViewerSpawned
	StateDetached
	StateExited
	StateUnlocked
	StateAborted
)

var stateNames = [...]string{
	StateIdle:            "idle",
	StateStarting:        "starting",
	StateLocking:         "locking",
	StateLocked:          "locked",
	StateFetchingParams:  "fetching_params",
	StateArtifactWritten: "artifact_written",
	StateViewerSpawned:   "viewer_spawned",
	StateDetached:        "detached",
	StateExited:          "exited",
	StateUnlocked:        "unlocked",
	StateAborted:         "aborted",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == StateUnlocked || s == StateAborted
}
