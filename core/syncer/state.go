package syncer

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a Scan or Apply is already running.
	ErrBusy = errors.New("syncer: operation already in progress")
	// ErrNoScan is returned when Apply has no pending scan to commit.
	ErrNoScan = errors.New("syncer: no pending scan")
	// ErrInvalidArgument is returned for missing required arguments.
	ErrInvalidArgument = errors.New("syncer: invalid argument")
)

// State is the orchestrator lifecycle state.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateScanned
	StateApplying
	StateApplied
	StateFailed
)

var stateNames = [...]string{
	StateIdle:     "idle",
	StateScanning: "scanning",
	StateScanned:  "scanned",
	StateApplying: "applying",
	StateApplied:  "applied",
	StateFailed:   "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

func (s State) busy() bool {
	return s == StateScanning || s == StateApplying
}
