package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ErrConversion is wrapped by every failed encode
var ErrConversion = errors.New("conversion failed")

// Encoder converts one input file into a lossless output file.
type Encoder interface {
	Encode(ctx context.Context, input, output string) error
}

// FFmpegEncoder runs ffmpeg with a fixed compression effort, overwriting
// any existing output.
type FFmpegEncoder struct {
	Binary           string
	CompressionLevel int
}

func NewFFmpegEncoder(binary string, compressionLevel int) *FFmpegEncoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegEncoder{Binary: binary, CompressionLevel: compressionLevel}
}

func (e *FFmpegEncoder) Encode(ctx context.Context, input, output string) error {
	// Check if input file exists
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("%w: input file not found: %s", ErrConversion, input)
	}

	cmd := exec.CommandContext(ctx, e.Binary,
		"-i", input,
		"-compression_level", strconv.Itoa(e.CompressionLevel),
		"-y", // Overwrite output file
		output,
	)

	slog.Debug("Running FFmpeg for conversion", "command", strings.Join(cmd.Args, " "))

	// Output is kept out of the terminal and only surfaces in the debug log
	combined, err := cmd.CombinedOutput()
	if err != nil {
		slog.Debug("FFmpeg output", "file", input, "output", string(combined))
		return fmt.Errorf("%w: %s: %w", ErrConversion, input, err)
	}

	// Verify output file was created
	if _, err := os.Stat(output); err != nil {
		return fmt.Errorf("%w: output file not created: %s", ErrConversion, output)
	}

	return nil
}
