package play

import (
	"context"
	"errors"
	"time"
)

// ErrSeek is wrapped by errors from Seek
var ErrSeek = errors.New("seek rejected")

// Engine is the playback surface consumed by the tagging session.
type Engine interface {
	// Load replaces whatever is playing with path and starts it from the
	// beginning, returning the track length.
	Load(ctx context.Context, path string) (time.Duration, error)

	// Position reports elapsed playing time, 0 when nothing is loaded.
	Position() time.Duration

	// Seek moves the play head; targets past the end are clamped to the end.
	Seek(target time.Duration) error

	// Stop halts playback. Stopping an idle engine is not an error.
	Stop() error
}
