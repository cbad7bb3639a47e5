package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithProfile_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadWithProfile(filepath.Join(t.TempDir(), "absent.yaml"), "")
	if err != nil {
		t.Fatalf("Expected no error for missing config file, got: %v", err)
	}

	if cfg.Output.Format != "flac" {
		t.Errorf("Expected default format 'flac', got %s", cfg.Output.Format)
	}
	if cfg.Output.CompressionLevel != 8 {
		t.Errorf("Expected default compression level 8, got %d", cfg.Output.CompressionLevel)
	}
	if cfg.Playback.SeekStep != 5*time.Second {
		t.Errorf("Expected default seek step 5s, got %s", cfg.Playback.SeekStep)
	}
	if cfg.UI.WaveformPoints != 200 {
		t.Errorf("Expected 200 waveform points, got %d", cfg.UI.WaveformPoints)
	}
	if len(cfg.Input.Extensions) != 1 || cfg.Input.Extensions[0] != "wav" {
		t.Errorf("Expected input extensions [wav], got %v", cfg.Input.Extensions)
	}
}

func TestLoadWithProfile_SelectionAndFallback(t *testing.T) {
	content := `
active_config: studio

configs:
  default:
    output:
      compression_level: 5
    metadata:
      tag_delimiter: ";"
  studio:
    input:
      extensions: [".WAV", "aiff"]
    playback:
      seek_step: 10s
`
	configFile := createTempConfig(t, content)

	cfg, err := LoadWithProfile(configFile, "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Profile-specific values
	if len(cfg.Input.Extensions) != 2 || cfg.Input.Extensions[0] != "wav" || cfg.Input.Extensions[1] != "aiff" {
		t.Errorf("Expected normalized extensions [wav aiff], got %v", cfg.Input.Extensions)
	}
	if cfg.Playback.SeekStep != 10*time.Second {
		t.Errorf("Expected seek step 10s, got %s", cfg.Playback.SeekStep)
	}

	// Inherited from the file's default profile
	if cfg.Output.CompressionLevel != 5 {
		t.Errorf("Expected compression level 5 from default profile, got %d", cfg.Output.CompressionLevel)
	}
	if cfg.Metadata.TagDelimiter != ";" {
		t.Errorf("Expected tag delimiter ';' from default profile, got %q", cfg.Metadata.TagDelimiter)
	}

	// Inherited from built-in defaults
	if cfg.Metadata.TagsField != "TAGS" || cfg.Metadata.LocationField != "LOCATION" {
		t.Errorf("Expected built-in field names, got %+v", cfg.Metadata)
	}

	if cfg.Inheritance == nil {
		t.Fatal("Inheritance tracking not initialized")
	}
	if cfg.Inheritance.Input != "profile-specific" {
		t.Errorf("Expected input to be profile-specific, got %s", cfg.Inheritance.Input)
	}
	if cfg.Inheritance.UI != "inherited" {
		t.Errorf("Expected ui to be inherited, got %s", cfg.Inheritance.UI)
	}
}

func TestLoadWithProfile_ExplicitProfileOverridesActive(t *testing.T) {
	content := `
active_config: studio
configs:
  studio:
    output:
      compression_level: 3
  field:
    output:
      compression_level: 12
`
	configFile := createTempConfig(t, content)

	cfg, err := LoadWithProfile(configFile, "field")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cfg.Output.CompressionLevel != 12 {
		t.Errorf("Expected compression level 12, got %d", cfg.Output.CompressionLevel)
	}
}

func TestLoadWithProfile_UnknownProfile(t *testing.T) {
	configFile := createTempConfig(t, "configs:\n  studio:\n    ui:\n      waveform_points: 50\n")

	_, err := LoadWithProfile(configFile, "missing")
	if err == nil {
		t.Fatal("Expected error for unknown profile")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected 'not found' error, got: %v", err)
	}
}

func TestLoadWithProfile_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "compression level out of range",
			content: "configs:\n  default:\n    output:\n      compression_level: 13\n",
			want:    "compression_level",
		},
		{
			name:    "input equals output",
			content: "configs:\n  default:\n    input:\n      extensions: [flac]\n",
			want:    "must differ from output.format",
		},
		{
			name:    "bad exclude glob",
			content: "configs:\n  default:\n    input:\n      exclude: [\"[abc\"]\n",
			want:    "not a valid glob",
		},
		{
			name:    "mono or stereo only",
			content: "configs:\n  default:\n    playback:\n      channels: 6\n",
			want:    "playback.channels",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := createTempConfig(t, tt.content)
			_, err := LoadWithProfile(configFile, "")
			if err == nil {
				t.Fatalf("Expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestLoadWithProfile_ExplicitZeroValuesOverride(t *testing.T) {
	content := `
active_config: quick

configs:
  default:
    input:
      verify_content: true
    output:
      compression_level: 5
  quick:
    input:
      verify_content: false
    output:
      compression_level: 0
  plain:
    playback:
      seek_step: 2s
`
	configFile := createTempConfig(t, content)

	cfg, err := LoadWithProfile(configFile, "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cfg.Input.VerifyContent {
		t.Errorf("Expected verify_content turned off by profile")
	}
	if cfg.Output.CompressionLevel != 0 {
		t.Errorf("Expected compression level 0, got %d", cfg.Output.CompressionLevel)
	}
	if cfg.Inheritance.Input != "profile-specific" || cfg.Inheritance.Output != "profile-specific" {
		t.Errorf("Expected input and output to be profile-specific, got %+v", cfg.Inheritance)
	}

	// Keys a profile leaves out still come from default
	cfg, err = LoadWithProfile(configFile, "plain")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !cfg.Input.VerifyContent {
		t.Errorf("Expected verify_content inherited from default")
	}
	if cfg.Output.CompressionLevel != 5 {
		t.Errorf("Expected compression level 5 inherited from default, got %d", cfg.Output.CompressionLevel)
	}
}

func TestMergeConfigs_NilProfile(t *testing.T) {
	result := mergeConfigs(Default(), nil)

	if result.Output.Encoder != "ffmpeg" {
		t.Errorf("Expected encoder 'ffmpeg', got %s", result.Output.Encoder)
	}
	if result.Inheritance.Output != "inherited" {
		t.Errorf("Expected output to be inherited, got %s", result.Inheritance.Output)
	}
}

func TestMergeConfigs_DoesNotAliasBaseSlices(t *testing.T) {
	base := Default()
	profile := &Config{Input: InputConfig{Extensions: []string{"aiff"}}}

	result := mergeConfigs(base, profile)
	result.Input.Extensions[0] = "mutated"

	if profile.Input.Extensions[0] != "aiff" {
		t.Errorf("Expected profile extensions untouched, got %v", profile.Input.Extensions)
	}
	if base.Input.Extensions[0] != "wav" {
		t.Errorf("Expected base extensions untouched, got %v", base.Input.Extensions)
	}
}

func TestOutputPath(t *testing.T) {
	cfg := Default()

	tests := map[string]string{
		"take1.wav":             "take1.flac",
		"./dir/field.take.wav":  "./dir/field.take.flac",
		"/abs/path/NoExtension": "/abs/path/NoExtension.flac",
	}

	for in, want := range tests {
		if got := cfg.OutputPath(in); got != want {
			t.Errorf("OutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := expandPath("~/recordings"); got != filepath.Join(home, "recordings") {
		t.Errorf("Expected tilde expansion, got %s", got)
	}
	if got := expandPath("./recordings"); got != "./recordings" {
		t.Errorf("Expected relative path untouched, got %s", got)
	}
}

// Helper function to create temporary config files
func createTempConfig(t *testing.T, content string) string {
	t.Helper()

	configFile := filepath.Join(t.TempDir(), "field-tagger.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	return configFile
}
