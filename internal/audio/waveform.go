package audio

import (
	"context"
	"math"
)

// WaveformCeiling is the largest value Summarize emits.
const WaveformCeiling = 100.0

// Summarize reduces samples to points RMS magnitudes scaled into [0, WaveformCeiling].
//
// The samples are cut into points contiguous chunks of len(samples)/points
// samples; the last chunk also takes the remainder. A chunk holding no
// samples yields 0.
func Summarize(samples []int16, points int) []float64 {
	if points <= 0 {
		return nil
	}

	waveform := make([]float64, points)
	if len(samples) == 0 {
		return waveform
	}

	chunkSize := len(samples) / points
	for i := 0; i < points; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if i == points-1 {
			end = len(samples)
		}
		if start >= end {
			continue
		}

		var sumSquares float64
		for _, s := range samples[start:end] {
			v := float64(s)
			sumSquares += v * v
		}
		rms := math.Sqrt(sumSquares / float64(end-start))

		waveform[i] = math.Min(rms/math.MaxInt16*WaveformCeiling, WaveformCeiling)
	}

	return waveform
}

// Summarizer produces the display waveform of a file.
type Summarizer struct {
	decoder Decoder
	points  int
}

func NewSummarizer(decoder Decoder, points int) *Summarizer {
	return &Summarizer{decoder: decoder, points: points}
}

// Waveform decodes path and summarizes it
func (s *Summarizer) Waveform(ctx context.Context, path string) ([]float64, error) {
	pcm, err := s.decoder.Decode(ctx, path)
	if err != nil {
		return nil, err
	}
	return Summarize(pcm.Samples, s.points), nil
}
