package convert

import (
	"context"
	"fmt"
	"log/slog"
)

// Job is one input/output pair
type Job struct {
	Input  string
	Output string
}

// Converter encodes a batch in order and stops at the first failure.
type Converter struct {
	encoder    Encoder
	outputPath func(input string) string
}

func New(encoder Encoder, outputPath func(input string) string) *Converter {
	return &Converter{encoder: encoder, outputPath: outputPath}
}

// OutputPath returns where input will be written
func (c *Converter) OutputPath(input string) string {
	return c.outputPath(input)
}

// ConvertAll encodes inputs in order. It returns the jobs that completed;
// on failure those outputs stay on disk. progress, if set, is called after
// each successful job.
func (c *Converter) ConvertAll(ctx context.Context, inputs []string, progress func(done int, job Job)) ([]Job, error) {
	done := make([]Job, 0, len(inputs))

	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return done, fmt.Errorf("%w: %w", ErrConversion, err)
		}

		job := Job{Input: input, Output: c.outputPath(input)}
		if err := c.encoder.Encode(ctx, job.Input, job.Output); err != nil {
			slog.Error("Conversion failed", "file", input, "error", err)
			return done, err
		}

		done = append(done, job)
		slog.Info("Converted audio file", "input", job.Input, "output", job.Output)
		if progress != nil {
			progress(len(done), job)
		}
	}

	return done, nil
}
