package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/ravelandante/field-tagger/internal/audio"
	"github.com/ravelandante/field-tagger/internal/config"
	"github.com/ravelandante/field-tagger/internal/convert"
	"github.com/ravelandante/field-tagger/internal/discovery"
	"github.com/ravelandante/field-tagger/internal/play"
	"github.com/ravelandante/field-tagger/internal/session"
	"github.com/ravelandante/field-tagger/internal/tagging"
)

// Service is what the CLI commands drive
type Service interface {
	// Discovery
	Discover(dir string) ([]string, error)

	// Interactive annotation
	NewSession(ctx context.Context, files []string) (*Session, error)

	// Batch operations
	Convert(ctx context.Context, files []string, progress func(done int, job convert.Job)) ([]convert.Job, error)
	Info(path string) (*FileInfo, error)

	// Configuration
	LoadProfile(profile string) error
	GetConfig() *config.Config
}

// FileInfo describes a converted file and the metadata stored in it
type FileInfo struct {
	Path      string            `json:"path" yaml:"path"`
	Size      int64             `json:"size" yaml:"size"`
	SizeHuman string            `json:"size_human" yaml:"size_human"`
	ModTime   time.Time         `json:"mod_time" yaml:"mod_time"`
	Tags      []string          `json:"tags" yaml:"tags"`
	Location  string            `json:"location" yaml:"location"`
	Comments  map[string]string `json:"comments" yaml:"comments"`
}

// Session is a running annotation session with the audio device open.
type Session struct {
	Controller *session.Controller

	engine *play.PortAudioEngine
}

// Close releases the audio device
func (s *Session) Close() error {
	if s.engine == nil {
		return nil
	}
	err := s.engine.Close()
	s.engine = nil
	return err
}

// TaggerService is the main service implementation
type TaggerService struct {
	cfg        *config.Config
	configFile string

	mu      sync.RWMutex
	encoder convert.Encoder
}

// New creates a new service instance
func New(cfg *config.Config, configFile string) Service {
	return &TaggerService{
		cfg:        cfg,
		configFile: configFile,
		encoder:    convert.NewFFmpegEncoder(cfg.Output.Encoder, cfg.Output.CompressionLevel),
	}
}

// Discover lists the files a session over dir would annotate. An empty dir
// means the configured input directory.
func (s *TaggerService) Discover(dir string) ([]string, error) {
	cfg := s.GetConfig()
	if dir == "" {
		dir = cfg.Input.Directory
	}

	scanner, err := discovery.NewScanner(discovery.Options{
		Extensions:    cfg.Input.Extensions,
		Exclude:       cfg.Input.Exclude,
		VerifyContent: cfg.Input.VerifyContent,
	})
	if err != nil {
		return nil, err
	}

	files, err := scanner.Scan(dir)
	if err != nil {
		return nil, err
	}
	slog.Debug("Service.Discover completed", "dir", dir, "files", len(files))
	return files, nil
}

// NewSession opens the audio device and starts a session on the first file.
// The caller must Close the returned session.
func (s *TaggerService) NewSession(ctx context.Context, files []string) (*Session, error) {
	cfg := s.GetConfig()

	decoder := audio.NewCachingDecoder(audio.NewFFmpegDecoder(cfg.Playback.Decoder, cfg.Playback.SampleRate, cfg.Playback.Channels))
	engine := play.NewPortAudioEngine(decoder, cfg.Playback.SampleRate, cfg.Playback.Channels, cfg.Playback.FramesPerBuffer)
	if err := engine.Open(); err != nil {
		return nil, fmt.Errorf("failed to open audio output: %w", err)
	}

	ctrl, err := session.NewController(ctx, files, cfg.Playback.SeekStep, session.Deps{
		Engine:    engine,
		Waveform:  audio.NewSummarizer(decoder, cfg.UI.WaveformPoints),
		Finalizer: session.NewFinalizer(s.converter(), s.writer()),
		Remove:    os.Remove,
		Release:   decoder.Forget,
	})
	if err != nil {
		if closeErr := engine.Close(); closeErr != nil {
			slog.Debug("Error closing audio output", "error", closeErr)
		}
		return nil, err
	}

	return &Session{Controller: ctrl, engine: engine}, nil
}

// Convert encodes files without collecting metadata
func (s *TaggerService) Convert(ctx context.Context, files []string, progress func(done int, job convert.Job)) ([]convert.Job, error) {
	jobs, err := s.converter().ConvertAll(ctx, files, progress)
	if err != nil {
		return jobs, fmt.Errorf("batch conversion stopped after %d of %d files: %w", len(jobs), len(files), err)
	}
	return jobs, nil
}

// Info reads back the metadata of a converted file
func (s *TaggerService) Info(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	comments, err := tagging.Comments(path)
	if err != nil {
		return nil, err
	}

	entry := s.writer().EntryFrom(comments)

	return &FileInfo{
		Path:      path,
		Size:      stat.Size(),
		SizeHuman: formatBytes(stat.Size()),
		ModTime:   stat.ModTime(),
		Tags:      entry.Tags,
		Location:  entry.Location,
		Comments:  comments,
	}, nil
}

// LoadProfile switches to another configuration profile
func (s *TaggerService) LoadProfile(profile string) error {
	newCfg, err := config.LoadWithProfile(s.configFile, profile)
	if err != nil {
		return fmt.Errorf("failed to load profile '%s': %w", profile, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = newCfg
	s.encoder = convert.NewFFmpegEncoder(newCfg.Output.Encoder, newCfg.Output.CompressionLevel)
	return nil
}

// GetConfig returns the current configuration
func (s *TaggerService) GetConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *TaggerService) converter() *convert.Converter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return convert.New(s.encoder, s.cfg.OutputPath)
}

func (s *TaggerService) writer() *tagging.FLACWriter {
	md := s.GetConfig().Metadata
	return tagging.NewFLACWriter(md.TagsField, md.LocationField, md.TagDelimiter)
}

// formatBytes formats bytes in human readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
