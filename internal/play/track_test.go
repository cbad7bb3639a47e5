package play

import (
	"testing"
	"time"

	"github.com/ravelandante/field-tagger/internal/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// one second of stereo audio at 10 frames per second
func testPCM() *audio.PCM {
	samples := make([]int16, 20)
	for i := range samples {
		samples[i] = int16(i + 1)
	}
	return &audio.PCM{Samples: samples, SampleRate: 10, Channels: 2}
}

func TestTrack_IdleRendersSilence(t *testing.T) {
	var tr track
	out := []int16{9, 9, 9, 9}

	tr.fill(out)

	assert.Equal(t, []int16{0, 0, 0, 0}, out)
	assert.Zero(t, tr.position())
}

func TestTrack_FillAdvancesPosition(t *testing.T) {
	var tr track
	tr.load(testPCM())

	out := make([]int16, 8)
	tr.fill(out)

	assert.Equal(t, []int16{1, 2, 3, 4, 5, 6, 7, 8}, out)
	assert.Equal(t, 400*time.Millisecond, tr.position())
}

func TestTrack_PadsAfterEnd(t *testing.T) {
	var tr track
	tr.load(testPCM())

	out := make([]int16, 24)
	tr.fill(out)

	assert.Equal(t, int16(20), out[19])
	assert.Equal(t, []int16{0, 0, 0, 0}, out[20:])
	assert.Equal(t, time.Second, tr.position())

	tr.fill(out)
	assert.Equal(t, time.Second, tr.position(), "position holds at the end")
}

func TestTrack_SeekClampsToEnd(t *testing.T) {
	var tr track
	tr.load(testPCM())

	require.NoError(t, tr.seek(500*time.Millisecond))
	assert.Equal(t, 500*time.Millisecond, tr.position())

	require.NoError(t, tr.seek(time.Hour))
	assert.Equal(t, time.Second, tr.position())
}

func TestTrack_SeekRejected(t *testing.T) {
	var tr track

	err := tr.seek(time.Second)
	assert.ErrorIs(t, err, ErrSeek)

	tr.load(testPCM())
	err = tr.seek(-time.Second)
	assert.ErrorIs(t, err, ErrSeek)
}

func TestTrack_ClearResets(t *testing.T) {
	var tr track
	tr.load(testPCM())
	tr.fill(make([]int16, 4))

	tr.clear()

	assert.Zero(t, tr.position())
	out := []int16{5, 5}
	tr.fill(out)
	assert.Equal(t, []int16{0, 0}, out)
}
