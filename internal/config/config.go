package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/spf13/viper"
)

type RootConfig struct {
	ActiveConfig string             `mapstructure:"active_config" yaml:"active_config"`
	Configs      map[string]*Config `mapstructure:"configs" yaml:"configs"`
}

type Config struct {
	Input    InputConfig    `mapstructure:"input" yaml:"input"`
	Playback PlaybackConfig `mapstructure:"playback" yaml:"playback"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Metadata MetadataConfig `mapstructure:"metadata" yaml:"metadata"`
	UI       UIConfig       `mapstructure:"ui" yaml:"ui"`

	// Internal field to track inheritance information for config show
	Inheritance *InheritanceInfo `mapstructure:"-" yaml:"-"`

	// Keys present in the profile's YAML, relative to the profile, e.g.
	// "output.compression_level". Lets a profile set a field to its zero value.
	explicit map[string]bool
}

type InheritanceInfo struct {
	Input    string
	Playback string
	Output   string
	Metadata string
	UI       string
}

type InputConfig struct {
	Directory     string   `mapstructure:"directory" yaml:"directory"`
	Extensions    []string `mapstructure:"extensions" yaml:"extensions"`
	Exclude       []string `mapstructure:"exclude" yaml:"exclude"`               // glob patterns matched against the relative path
	VerifyContent bool     `mapstructure:"verify_content" yaml:"verify_content"` // sniff file headers, not just extensions
}

type PlaybackConfig struct {
	Decoder         string        `mapstructure:"decoder" yaml:"decoder"`
	SampleRate      int           `mapstructure:"sample_rate" yaml:"sample_rate"`
	Channels        int           `mapstructure:"channels" yaml:"channels"`
	FramesPerBuffer int           `mapstructure:"frames_per_buffer" yaml:"frames_per_buffer"`
	SeekStep        time.Duration `mapstructure:"seek_step" yaml:"seek_step"`
}

type OutputConfig struct {
	Encoder          string `mapstructure:"encoder" yaml:"encoder"`
	Format           string `mapstructure:"format" yaml:"format"`
	CompressionLevel int    `mapstructure:"compression_level" yaml:"compression_level"`
}

type MetadataConfig struct {
	TagsField     string `mapstructure:"tags_field" yaml:"tags_field"`
	LocationField string `mapstructure:"location_field" yaml:"location_field"`
	TagDelimiter  string `mapstructure:"tag_delimiter" yaml:"tag_delimiter"`
}

type UIConfig struct {
	WaveformPoints int           `mapstructure:"waveform_points" yaml:"waveform_points"`
	TickInterval   time.Duration `mapstructure:"tick_interval" yaml:"tick_interval"`
}

// Default returns the built-in configuration used when no file is present.
func Default() *Config {
	cfg := defaultConfig
	cfg.Input.Extensions = append([]string(nil), defaultConfig.Input.Extensions...)
	return &cfg
}

var defaultConfig = Config{
	Input: InputConfig{
		Directory:  ".",
		Extensions: []string{"wav"},
	},
	Playback: PlaybackConfig{
		Decoder:         "ffmpeg",
		SampleRate:      48000,
		Channels:        2,
		FramesPerBuffer: 1024,
		SeekStep:        5 * time.Second,
	},
	Output: OutputConfig{
		Encoder:          "ffmpeg",
		Format:           "flac",
		CompressionLevel: 8,
	},
	Metadata: MetadataConfig{
		TagsField:     "TAGS",
		LocationField: "LOCATION",
		TagDelimiter:  ", ",
	},
	UI: UIConfig{
		WaveformPoints: 200,
		TickInterval:   100 * time.Millisecond,
	},
}

// LoadWithProfile resolves the named profile from configFile on top of the
// file's "default" profile and the built-in defaults. A missing file is not
// an error: the built-in defaults are returned.
func LoadWithProfile(configFile, profile string) (*Config, error) {
	if configFile == "" {
		return finalize(Default())
	}

	if _, err := os.Stat(configFile); errors.Is(err, os.ErrNotExist) {
		return finalize(Default())
	}

	rootConfig, err := ValidateConfigurationFormat(configFile)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	// Determine which config to use
	configName := profile
	if configName == "" {
		configName = rootConfig.ActiveConfig
	}
	if configName == "" {
		configName = "default"
	}

	selected, exists := rootConfig.Configs[configName]
	if !exists {
		if configName == "default" && profile == "" {
			return finalize(Default())
		}
		return nil, fmt.Errorf("configuration profile '%s' not found", configName)
	}

	base := Default()
	if configName != "default" {
		if defaultProfile, ok := rootConfig.Configs["default"]; ok {
			base = mergeConfigs(base, defaultProfile)
		}
	}

	return finalize(mergeConfigs(base, selected))
}

func finalize(cfg *Config) (*Config, error) {
	cfg.Input.Directory = expandPath(cfg.Input.Directory)
	for i, ext := range cfg.Input.Extensions {
		cfg.Input.Extensions[i] = normalizeExtension(ext)
	}
	cfg.Output.Format = normalizeExtension(cfg.Output.Format)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ValidateConfigurationFormat reads configFile and returns the parsed root config
func ValidateConfigurationFormat(configFile string) (*RootConfig, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetEnvPrefix("FIELD_TAGGER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}

	var rootConfig RootConfig
	if err := v.Unmarshal(&rootConfig); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	for name, profile := range rootConfig.Configs {
		if profile == nil {
			return nil, fmt.Errorf("config '%s' is empty", name)
		}
		prefix := "configs." + strings.ToLower(name) + "."
		profile.explicit = make(map[string]bool)
		for _, key := range v.AllKeys() {
			if rest, ok := strings.CutPrefix(key, prefix); ok {
				profile.explicit[rest] = true
			}
		}
	}

	return &rootConfig, nil
}

// mergeConfigs overlays every non-zero field of profile onto base.
// Sections left untouched by the profile are marked as inherited.
func mergeConfigs(base, profile *Config) *Config {
	result := &Config{}
	if base != nil {
		*result = *base
	}
	result.Inheritance = &InheritanceInfo{
		Input:    "inherited",
		Playback: "inherited",
		Output:   "inherited",
		Metadata: "inherited",
		UI:       "inherited",
	}

	if profile == nil {
		return result
	}

	// Input
	in := profile.Input
	setVerify := in.VerifyContent || profile.explicit["input.verify_content"]
	if in.Directory != "" || len(in.Extensions) > 0 || len(in.Exclude) > 0 || setVerify {
		result.Inheritance.Input = "profile-specific"
	}
	if in.Directory != "" {
		result.Input.Directory = in.Directory
	}
	if len(in.Extensions) > 0 {
		result.Input.Extensions = append([]string(nil), in.Extensions...)
	}
	if len(in.Exclude) > 0 {
		result.Input.Exclude = append([]string(nil), in.Exclude...)
	}
	if setVerify {
		result.Input.VerifyContent = in.VerifyContent
	}

	// Playback
	pb := profile.Playback
	if pb != (PlaybackConfig{}) {
		result.Inheritance.Playback = "profile-specific"
	}
	if pb.Decoder != "" {
		result.Playback.Decoder = pb.Decoder
	}
	if pb.SampleRate != 0 {
		result.Playback.SampleRate = pb.SampleRate
	}
	if pb.Channels != 0 {
		result.Playback.Channels = pb.Channels
	}
	if pb.FramesPerBuffer != 0 {
		result.Playback.FramesPerBuffer = pb.FramesPerBuffer
	}
	if pb.SeekStep != 0 {
		result.Playback.SeekStep = pb.SeekStep
	}

	// Output
	out := profile.Output
	setLevel := out.CompressionLevel != 0 || profile.explicit["output.compression_level"]
	if out != (OutputConfig{}) || setLevel {
		result.Inheritance.Output = "profile-specific"
	}
	if out.Encoder != "" {
		result.Output.Encoder = out.Encoder
	}
	if out.Format != "" {
		result.Output.Format = out.Format
	}
	if setLevel {
		result.Output.CompressionLevel = out.CompressionLevel
	}

	// Metadata
	md := profile.Metadata
	if md != (MetadataConfig{}) {
		result.Inheritance.Metadata = "profile-specific"
	}
	if md.TagsField != "" {
		result.Metadata.TagsField = md.TagsField
	}
	if md.LocationField != "" {
		result.Metadata.LocationField = md.LocationField
	}
	if md.TagDelimiter != "" {
		result.Metadata.TagDelimiter = md.TagDelimiter
	}

	// UI
	ui := profile.UI
	if ui != (UIConfig{}) {
		result.Inheritance.UI = "profile-specific"
	}
	if ui.WaveformPoints != 0 {
		result.UI.WaveformPoints = ui.WaveformPoints
	}
	if ui.TickInterval != 0 {
		result.UI.TickInterval = ui.TickInterval
	}

	return result
}

// Validate checks the resolved configuration
func Validate(cfg *Config) error {
	if len(cfg.Input.Extensions) == 0 {
		return fmt.Errorf("input.extensions cannot be empty")
	}
	for i, ext := range cfg.Input.Extensions {
		if ext == "" {
			return fmt.Errorf("input.extensions[%d] cannot be empty", i)
		}
		if ext == cfg.Output.Format {
			return fmt.Errorf("input.extensions[%d] '%s' must differ from output.format", i, ext)
		}
	}
	for i, pattern := range cfg.Input.Exclude {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("input.exclude[%d] '%s' is not a valid glob: %w", i, pattern, err)
		}
	}

	if cfg.Playback.Decoder == "" {
		return fmt.Errorf("playback.decoder is required")
	}
	if cfg.Playback.SampleRate <= 0 {
		return fmt.Errorf("playback.sample_rate must be > 0, got: %d", cfg.Playback.SampleRate)
	}
	if cfg.Playback.Channels != 1 && cfg.Playback.Channels != 2 {
		return fmt.Errorf("playback.channels must be 1 or 2, got: %d", cfg.Playback.Channels)
	}
	if cfg.Playback.FramesPerBuffer <= 0 {
		return fmt.Errorf("playback.frames_per_buffer must be > 0, got: %d", cfg.Playback.FramesPerBuffer)
	}
	if cfg.Playback.SeekStep <= 0 {
		return fmt.Errorf("playback.seek_step must be > 0, got: %s", cfg.Playback.SeekStep)
	}

	if cfg.Output.Encoder == "" {
		return fmt.Errorf("output.encoder is required")
	}
	if cfg.Output.Format == "" {
		return fmt.Errorf("output.format is required")
	}
	if cfg.Output.CompressionLevel < 0 || cfg.Output.CompressionLevel > 12 {
		return fmt.Errorf("output.compression_level must be between 0 and 12, got: %d", cfg.Output.CompressionLevel)
	}

	if cfg.Metadata.TagsField == "" || cfg.Metadata.LocationField == "" {
		return fmt.Errorf("metadata.tags_field and metadata.location_field are required")
	}
	if strings.Contains(cfg.Metadata.TagsField, "=") || strings.Contains(cfg.Metadata.LocationField, "=") {
		return fmt.Errorf("metadata field names cannot contain '='")
	}

	if cfg.UI.WaveformPoints <= 0 {
		return fmt.Errorf("ui.waveform_points must be > 0, got: %d", cfg.UI.WaveformPoints)
	}
	if cfg.UI.TickInterval <= 0 {
		return fmt.Errorf("ui.tick_interval must be > 0, got: %s", cfg.UI.TickInterval)
	}

	return nil
}

// OutputPath returns the sibling path the encoder writes for input
func (c *Config) OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + c.Output.Format
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
