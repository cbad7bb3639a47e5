package session

import (
	"fmt"
	"time"
)

// Phase is the sub-state of the file being annotated
type Phase int

const (
	AwaitingLocation Phase = iota
	AwaitingTags
	Finalizing
)

func (p Phase) String() string {
	switch p {
	case AwaitingLocation:
		return "awaiting location"
	case AwaitingTags:
		return "awaiting tags"
	case Finalizing:
		return "finalizing"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State is the whole session. Files and Records are index-aligned.
type State struct {
	Files   []string
	Records []Record
	Index   int
	Input   string
	Phase   Phase

	SeekStep time.Duration
	Position time.Duration
	Duration time.Duration
	Progress float64
	Waveform []float64

	Terminate bool
	Status    string
}

func NewState(files []string, seekStep time.Duration) State {
	return State{
		Files:    append([]string(nil), files...),
		Records:  make([]Record, len(files)),
		SeekStep: seekStep,
		Phase:    AwaitingLocation,
	}
}

// Current returns the file being annotated, or "" past the end.
func (s State) Current() string {
	if s.Index < 0 || s.Index >= len(s.Files) {
		return ""
	}
	return s.Files[s.Index]
}

// Aligned reports whether Files and Records pair up and Index is usable.
func (s State) Aligned() bool {
	return len(s.Files) == len(s.Records) && s.Index >= 0 && s.Index <= len(s.Files)
}

// progress is position/duration clamped to [0, 1], 0 for an empty track.
func progress(position, duration time.Duration) float64 {
	if duration <= 0 {
		return 0
	}
	ratio := float64(position) / float64(duration)
	switch {
	case ratio < 0:
		return 0
	case ratio > 1:
		return 1
	default:
		return ratio
	}
}

func (s State) clone() State {
	s.Files = append([]string(nil), s.Files...)
	records := make([]Record, len(s.Records))
	for i, r := range s.Records {
		records[i] = r.clone()
	}
	s.Records = records
	return s
}

// resetPlayback clears what was shown for the previous file.
func (s *State) resetPlayback() {
	s.Position = 0
	s.Duration = 0
	s.Progress = 0
	s.Waveform = nil
}
