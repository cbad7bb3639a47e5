package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// ErrDecode is wrapped by every error returned from Decode.
var ErrDecode = errors.New("cannot decode audio")

// Decoder turns an audio file into PCM samples.
type Decoder interface {
	Decode(ctx context.Context, path string) (*PCM, error)
}

// FFmpegDecoder decodes through an ffmpeg subprocess writing raw s16le to stdout.
type FFmpegDecoder struct {
	Binary     string
	SampleRate int
	Channels   int
}

// NewFFmpegDecoder creates a decoder producing PCM at the given rate and channel count
func NewFFmpegDecoder(binary string, sampleRate, channels int) *FFmpegDecoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegDecoder{Binary: binary, SampleRate: sampleRate, Channels: channels}
}

func (d *FFmpegDecoder) Decode(ctx context.Context, path string) (*PCM, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	cmd := exec.CommandContext(ctx, d.Binary,
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(d.SampleRate),
		"-ac", strconv.Itoa(d.Channels),
		"-loglevel", "error",
		"pipe:1",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	slog.Debug("Running FFmpeg for decoding", "command", strings.Join(cmd.Args, " "))

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w (output: %s)", ErrDecode, path, err, strings.TrimSpace(stderr.String()))
	}

	return &PCM{
		Samples:    bytesToSamples(out),
		SampleRate: d.SampleRate,
		Channels:   d.Channels,
	}, nil
}

// CachingDecoder remembers the most recently decoded file so that playback
// and waveform summarizing of the same track share one decode.
type CachingDecoder struct {
	next Decoder

	mu   sync.Mutex
	path string
	pcm  *PCM
}

func NewCachingDecoder(next Decoder) *CachingDecoder {
	return &CachingDecoder{next: next}
}

func (c *CachingDecoder) Decode(ctx context.Context, path string) (*PCM, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pcm != nil && c.path == path {
		return c.pcm, nil
	}

	pcm, err := c.next.Decode(ctx, path)
	if err != nil {
		return nil, err
	}
	c.path, c.pcm = path, pcm
	return pcm, nil
}

// Forget drops the cached buffer
func (c *CachingDecoder) Forget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path, c.pcm = "", nil
}
