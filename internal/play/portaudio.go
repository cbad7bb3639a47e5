package play

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/ravelandante/field-tagger/internal/audio"
)

// PortAudioEngine plays decoded PCM on the default output device. The
// stream runs for the engine's lifetime and renders silence while idle.
type PortAudioEngine struct {
	decoder         audio.Decoder
	sampleRate      int
	channels        int
	framesPerBuffer int

	stream *portaudio.Stream
	track  track
}

// NewPortAudioEngine creates an engine; Open must be called before Load.
func NewPortAudioEngine(decoder audio.Decoder, sampleRate, channels, framesPerBuffer int) *PortAudioEngine {
	return &PortAudioEngine{
		decoder:         decoder,
		sampleRate:      sampleRate,
		channels:        channels,
		framesPerBuffer: framesPerBuffer,
	}
}

// Open initializes PortAudio and starts the output stream
func (e *PortAudioEngine) Open() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	outputDev, err := portaudio.DefaultOutputDevice()
	if err != nil || outputDev == nil {
		portaudio.Terminate()
		return fmt.Errorf("no output device available: %w", err)
	}

	params := portaudio.HighLatencyParameters(nil, outputDev)
	params.SampleRate = float64(e.sampleRate)
	params.Output.Channels = e.channels
	params.FramesPerBuffer = e.framesPerBuffer

	stream, err := portaudio.OpenStream(params, e.track.fill)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open playback stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("failed to start playback stream: %w", err)
	}

	e.stream = stream
	slog.Debug("Playback stream started", "device", outputDev.Name, "sample_rate", e.sampleRate, "channels", e.channels)
	return nil
}

func (e *PortAudioEngine) Load(ctx context.Context, path string) (time.Duration, error) {
	e.track.clear()

	pcm, err := e.decoder.Decode(ctx, path)
	if err != nil {
		return 0, err
	}

	e.track.load(pcm)
	slog.Debug("Track loaded", "file", path, "duration", pcm.Duration())
	return pcm.Duration(), nil
}

func (e *PortAudioEngine) Position() time.Duration {
	return e.track.position()
}

func (e *PortAudioEngine) Seek(target time.Duration) error {
	return e.track.seek(target)
}

func (e *PortAudioEngine) Stop() error {
	e.track.clear()
	return nil
}

// Close stops the stream and releases PortAudio
func (e *PortAudioEngine) Close() error {
	e.track.clear()
	if e.stream != nil {
		if err := e.stream.Stop(); err != nil {
			slog.Debug("Error stopping playback stream", "error", err)
		}
		if err := e.stream.Close(); err != nil {
			slog.Debug("Error closing playback stream", "error", err)
		}
		e.stream = nil
	}
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}
