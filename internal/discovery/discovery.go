// Package discovery finds the recordings a session will walk through.
package discovery

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/h2non/filetype"
)

// Options controls which files are discovered
type Options struct {
	Extensions    []string // without the leading dot, matched case-insensitively
	Exclude       []string // globs matched against the slash-separated path relative to the root
	VerifyContent bool     // additionally require the file header to match the extension
}

// Scanner walks a directory tree collecting audio files.
type Scanner struct {
	extensions map[string]bool
	exclude    []glob.Glob
	verify     bool
}

func NewScanner(opts Options) (*Scanner, error) {
	s := &Scanner{
		extensions: make(map[string]bool, len(opts.Extensions)),
		verify:     opts.VerifyContent,
	}
	for _, ext := range opts.Extensions {
		s.extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
		s.exclude = append(s.exclude, g)
	}
	return s, nil
}

// Scan returns every matching file below root in walk order. An empty
// result is not an error.
func (s *Scanner) Scan(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if rel != "." && s.excluded(filepath.ToSlash(rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if !s.extensions[ext] {
			return nil
		}

		if s.verify && !matchesContent(path, ext) {
			slog.Warn("Skipping file whose content does not match its extension", "file", path)
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	slog.Debug("Discovery completed", "root", root, "files", len(files))
	return files, nil
}

func (s *Scanner) excluded(rel string) bool {
	for _, g := range s.exclude {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// matchesContent reports whether the file header agrees with ext. Formats
// the sniffer does not know are accepted.
func matchesContent(path, ext string) bool {
	if !filetype.IsSupported(ext) {
		return true
	}
	kind, err := filetype.MatchFile(path)
	if err != nil {
		slog.Debug("Failed to sniff file type", "file", path, "error", err)
		return false
	}
	return kind.Extension == ext
}
