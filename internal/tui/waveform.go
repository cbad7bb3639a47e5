package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/ravelandante/field-tagger/internal/audio"
)

var levels = []rune(" ▁▂▃▄▅▆▇█")

// renderWaveform draws values as a bar chart width columns wide and height
// rows tall. Columns left of progress use the played style.
func renderWaveform(values []float64, progress float64, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	columns := resample(values, width)
	played := int(progress * float64(width))

	rows := make([]string, height)
	for r := 0; r < height; r++ {
		level := height - 1 - r
		var head, tail strings.Builder
		for c, v := range columns {
			eighths := int(v/audio.WaveformCeiling*float64(height*8) + 0.5)
			fill := eighths - level*8
			if fill < 0 {
				fill = 0
			} else if fill > 8 {
				fill = 8
			}
			if c < played {
				head.WriteRune(levels[fill])
			} else {
				tail.WriteRune(levels[fill])
			}
		}
		rows[r] = playedStyle.Render(head.String()) + unplayedStyle.Render(tail.String())
	}
	return strings.Join(rows, "\n")
}

// resample picks width evenly spaced values, repeating values when there
// are fewer than width.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	if len(values) == 0 {
		return out
	}
	for c := range out {
		out[c] = values[c*len(values)/width]
	}
	return out
}

// formatClock renders d as MM:SS
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
