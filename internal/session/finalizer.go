package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ravelandante/field-tagger/internal/convert"
	"github.com/ravelandante/field-tagger/internal/tagging"
)

// Finalizer converts a finished batch and writes the collected metadata.
type Finalizer struct {
	converter *convert.Converter
	writer    tagging.Writer
}

func NewFinalizer(converter *convert.Converter, writer tagging.Writer) *Finalizer {
	return &Finalizer{converter: converter, writer: writer}
}

// Finalize converts every file in order and then writes the last file's
// record into that file's output. Only the last record is written.
// Converted outputs are left on disk when a later step fails.
func (f *Finalizer) Finalize(ctx context.Context, files []string, records []Record) error {
	if len(files) != len(records) {
		return fmt.Errorf("finalize: %d files but %d records", len(files), len(records))
	}
	if len(files) == 0 {
		return nil
	}

	slog.Info("Finalizing batch", "files", len(files))

	jobs, err := f.converter.ConvertAll(ctx, files, nil)
	if err != nil {
		return newError(KindConversion, failedInput(files, len(jobs)), err)
	}

	last := jobs[len(jobs)-1]
	record := records[len(records)-1]
	if err := f.writer.Write(last.Output, record.entry()); err != nil {
		return newError(KindMetadataWrite, last.Output, err)
	}

	slog.Info("Batch finalized", "files", len(jobs), "tagged", last.Output,
		"tags", len(record.Tags), "location", record.Location)
	return nil
}

func failedInput(files []string, done int) string {
	if done < len(files) {
		return files[done]
	}
	return ""
}

// Fatal reports whether err should end the session
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	var sessionErr *Error
	if errors.As(err, &sessionErr) {
		return sessionErr.Fatal()
	}
	return true
}
