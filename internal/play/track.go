package play

import (
	"fmt"
	"sync"
	"time"

	"github.com/ravelandante/field-tagger/internal/audio"
)

// track is the buffer the device callback pulls from. All methods are safe
// to call from the device thread and the session goroutine concurrently.
type track struct {
	mu    sync.Mutex
	pcm   *audio.PCM
	frame int
}

func (t *track) load(pcm *audio.PCM) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pcm = pcm
	t.frame = 0
}

func (t *track) clear() {
	t.load(nil)
}

func (t *track) position() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pcm.TimeAt(t.frame)
}

func (t *track) seek(target time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pcm == nil {
		return fmt.Errorf("%w: no track loaded", ErrSeek)
	}
	if target < 0 {
		return fmt.Errorf("%w: negative target %s", ErrSeek, target)
	}
	t.frame = t.pcm.FrameAt(target)
	return nil
}

// fill copies the next len(out) interleaved samples into out and pads with
// silence once the track is exhausted.
func (t *track) fill(out []int16) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	if t.pcm != nil && t.pcm.Channels > 0 {
		start := t.frame * t.pcm.Channels
		if start < len(t.pcm.Samples) {
			n = copy(out, t.pcm.Samples[start:])
			t.frame += n / t.pcm.Channels
		}
	}
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
}
