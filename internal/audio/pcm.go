package audio

import (
	"encoding/binary"
	"time"
)

// PCM is interleaved signed 16-bit audio
type PCM struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames (one sample per channel)
func (p *PCM) Frames() int {
	if p == nil || p.Channels <= 0 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// Duration returns the playing time of the buffer
func (p *PCM) Duration() time.Duration {
	if p == nil || p.SampleRate <= 0 {
		return 0
	}
	return time.Duration(p.Frames()) * time.Second / time.Duration(p.SampleRate)
}

// FrameAt converts a play-head time into a frame index clamped to the buffer
func (p *PCM) FrameAt(d time.Duration) int {
	if p == nil || p.SampleRate <= 0 || d <= 0 {
		return 0
	}
	frame := int(d * time.Duration(p.SampleRate) / time.Second)
	if frames := p.Frames(); frame > frames {
		return frames
	}
	return frame
}

// TimeAt converts a frame index into a play-head time
func (p *PCM) TimeAt(frame int) time.Duration {
	if p == nil || p.SampleRate <= 0 || frame <= 0 {
		return 0
	}
	return time.Duration(frame) * time.Second / time.Duration(p.SampleRate)
}

// bytesToSamples converts little-endian bytes to int16 samples, dropping a
// trailing odd byte.
func bytesToSamples(b []byte) []int16 {
	samples := make([]int16, len(b)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(b[i*2 : i*2+2]))
	}
	return samples
}
