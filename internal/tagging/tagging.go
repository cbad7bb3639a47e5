package tagging

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dhowden/tag"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// ErrMetadataWrite is wrapped by every error returned from a Writer
var ErrMetadataWrite = errors.New("metadata write failed")

// Entry is the metadata collected for one recording. HasLocation marks a
// confirmed location, which is written even when empty.
type Entry struct {
	Tags        []string
	Location    string
	HasLocation bool
}

// Writer stores an Entry inside an audio container
type Writer interface {
	Write(path string, entry Entry) error
}

// FLACWriter writes Vorbis comments into a FLAC file in place. Existing
// comments other than the two managed fields are kept.
type FLACWriter struct {
	TagsField     string
	LocationField string
	Delimiter     string
}

func NewFLACWriter(tagsField, locationField, delimiter string) *FLACWriter {
	return &FLACWriter{TagsField: tagsField, LocationField: locationField, Delimiter: delimiter}
}

func (w *FLACWriter) Write(path string, entry Entry) error {
	f, err := readFLAC(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMetadataWrite, err)
	}

	cmts := flacvorbis.New()
	idx := -1
	for i, block := range f.Meta {
		if block.Type == flac.VorbisComment {
			existing, err := flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				return fmt.Errorf("%w: failed to parse vorbis comments in %s: %w", ErrMetadataWrite, path, err)
			}
			cmts.Vendor = existing.Vendor
			for _, c := range existing.Comments {
				if !w.managed(c) {
					cmts.Comments = append(cmts.Comments, c)
				}
			}
			idx = i
			break
		}
	}

	if len(entry.Tags) > 0 {
		if err := cmts.Add(w.TagsField, strings.Join(entry.Tags, w.Delimiter)); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMetadataWrite, path, err)
		}
	}
	if entry.HasLocation || entry.Location != "" {
		if err := cmts.Add(w.LocationField, entry.Location); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMetadataWrite, path, err)
		}
	}

	block := cmts.Marshal()
	if idx >= 0 {
		f.Meta[idx] = &block
	} else {
		f.Meta = append(f.Meta, &block)
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("%w: failed to save %s: %w", ErrMetadataWrite, path, err)
	}

	slog.Info("Metadata written", "file", path, "tags", len(entry.Tags), "location", entry.HasLocation || entry.Location != "")
	return nil
}

// readFLAC parses the metadata blocks of path and keeps everything after
// them as opaque frame data. A stream without audio frames is valid.
func readFLAC(path string) (*flac.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flac file %s: %w", path, err)
	}

	end, err := metadataEnd(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse flac file %s: %w", path, err)
	}

	f, err := flac.ParseMetadata(bytes.NewReader(data[:end]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse flac metadata in %s: %w", path, err)
	}
	f.Frames = data[end:]
	return f, nil
}

// metadataEnd returns the offset just past the last metadata block.
func metadataEnd(data []byte) (int, error) {
	if len(data) < 4 || string(data[:4]) != "fLaC" {
		return 0, errors.New("missing fLaC stream marker")
	}

	pos := 4
	for {
		if pos+4 > len(data) {
			return 0, errors.New("truncated metadata block header")
		}
		last := data[pos]&0x80 != 0
		length := int(data[pos+1])<<16 | int(data[pos+2])<<8 | int(data[pos+3])
		pos += 4 + length
		if pos > len(data) {
			return 0, errors.New("truncated metadata block")
		}
		if last {
			return pos, nil
		}
	}
}

func (w *FLACWriter) managed(comment string) bool {
	key, _, ok := strings.Cut(comment, "=")
	if !ok {
		return false
	}
	return strings.EqualFold(key, w.TagsField) || strings.EqualFold(key, w.LocationField)
}

// Comments returns the Vorbis comments of an audio file keyed by upper-case field name
func Comments(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	comments := make(map[string]string)
	for k, v := range metadata.Raw() {
		if s, ok := v.(string); ok {
			comments[strings.ToUpper(k)] = s
		}
	}
	return comments, nil
}

// ReadEntry reads back an Entry written by w
func (w *FLACWriter) ReadEntry(path string) (Entry, error) {
	comments, err := Comments(path)
	if err != nil {
		return Entry{}, err
	}
	return w.EntryFrom(comments), nil
}

// EntryFrom extracts the managed fields from comments as returned by Comments.
func (w *FLACWriter) EntryFrom(comments map[string]string) Entry {
	var entry Entry
	sep := strings.TrimSpace(w.Delimiter)
	if sep == "" {
		sep = w.Delimiter
	}
	if raw := comments[strings.ToUpper(w.TagsField)]; raw != "" {
		for _, t := range strings.Split(raw, sep) {
			if t = strings.TrimSpace(t); t != "" {
				entry.Tags = append(entry.Tags, t)
			}
		}
	}
	entry.Location, entry.HasLocation = comments[strings.ToUpper(w.LocationField)]
	return entry
}
