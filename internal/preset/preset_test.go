package preset

import (
	"os"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "findbrr-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if err := os.WriteFile(tmpFile.Name(), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return tmpFile.Name()
}

func TestOutputMerging(t *testing.T) {
	configPath := writeConfig(t, `version: 1
default:
  output: "/default/rescue"
  symlinks: true

presets:
  with_output:
    output: "/preset/rescue"
    hash: 0.5

  without_output:
    hash: 0.25
`)

	config, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load test config: %v", err)
	}

	// Preset with its own output should override the default
	withOutput, err := config.GetPreset("with_output")
	if err != nil {
		t.Fatalf("Failed to get preset: %v", err)
	}
	if withOutput.Output != "/preset/rescue" {
		t.Errorf("Expected preset output to be '/preset/rescue', got '%s'", withOutput.Output)
	}
	if *withOutput.Hash != 0.5 {
		t.Errorf("Expected preset hash to be 0.5, got %v", *withOutput.Hash)
	}
	if !*withOutput.Symlinks {
		t.Errorf("Expected preset to inherit symlinks=true from default")
	}

	// Preset without output should inherit from the default
	withoutOutput, err := config.GetPreset("without_output")
	if err != nil {
		t.Fatalf("Failed to get preset: %v", err)
	}
	if withoutOutput.Output != "/default/rescue" {
		t.Errorf("Expected preset to inherit default output '/default/rescue', got '%s'", withoutOutput.Output)
	}
	if *withoutOutput.Hash != 0.25 {
		t.Errorf("Expected preset hash to be 0.25, got %v", *withoutOutput.Hash)
	}
}

func TestHardcodedDefaults(t *testing.T) {
	configPath := writeConfig(t, `version: 1
presets:
  bare: {}
  follow:
    follow_symlinks: true
`)

	config, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load test config: %v", err)
	}

	bare, err := config.GetPreset("bare")
	if err != nil {
		t.Fatalf("Failed to get preset: %v", err)
	}

	// All pointer fields must come back non-nil with the built-in defaults
	if bare.Symlinks == nil || bare.FollowSymlinks == nil || bare.Hash == nil {
		t.Fatalf("Expected merged preset to have non-nil pointer fields, got %+v", bare)
	}
	if *bare.Symlinks {
		t.Errorf("Expected default symlinks to be false")
	}
	if *bare.FollowSymlinks {
		t.Errorf("Expected default follow_symlinks to be false")
	}
	if *bare.Hash != 1.0 {
		t.Errorf("Expected default hash to be 1.0, got %v", *bare.Hash)
	}
	if bare.Output != "" {
		t.Errorf("Expected no default output, got '%s'", bare.Output)
	}

	follow, err := config.GetPreset("follow")
	if err != nil {
		t.Fatalf("Failed to get preset: %v", err)
	}
	if !*follow.FollowSymlinks {
		t.Errorf("Expected preset follow_symlinks to be true")
	}
	if *follow.Symlinks {
		t.Errorf("Expected symlinks to stay at the default")
	}
}

func TestPatternMerging(t *testing.T) {
	configPath := writeConfig(t, `version: 1
default:
  exclude_patterns: ["*.nfo", "*.jpg"]

presets:
  music:
    include_patterns: ["*.flac,*.mp3"]

  strict:
    exclude_patterns: ["*.sample"]
`)

	config, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load test config: %v", err)
	}

	music, err := config.GetPreset("music")
	if err != nil {
		t.Fatalf("Failed to get preset: %v", err)
	}
	if len(music.ExcludePatterns) != 2 {
		t.Errorf("Expected preset to inherit 2 exclude patterns, got %v", music.ExcludePatterns)
	}
	if len(music.IncludePatterns) != 1 || music.IncludePatterns[0] != "*.flac,*.mp3" {
		t.Errorf("Expected preset include patterns, got %v", music.IncludePatterns)
	}

	strict, err := config.GetPreset("strict")
	if err != nil {
		t.Fatalf("Failed to get preset: %v", err)
	}
	if len(strict.ExcludePatterns) != 1 || strict.ExcludePatterns[0] != "*.sample" {
		t.Errorf("Expected preset exclude patterns to override default, got %v", strict.ExcludePatterns)
	}
}

func TestGetPresetNotFound(t *testing.T) {
	configPath := writeConfig(t, `version: 1
presets:
  only: {}
`)

	config, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load test config: %v", err)
	}

	if _, err := config.GetPreset("missing"); err == nil {
		t.Errorf("Expected an error for an unknown preset name")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("/nonexistent/findbrr.yaml"); err == nil {
		t.Errorf("Expected an error for a missing config file")
	}

	badVersion := writeConfig(t, `version: 2
presets:
  x: {}
`)
	if _, err := Load(badVersion); err == nil {
		t.Errorf("Expected an error for an unsupported config version")
	}

	noPresets := writeConfig(t, `version: 1
`)
	if _, err := Load(noPresets); err == nil {
		t.Errorf("Expected an error for a config without presets")
	}

	invalid := writeConfig(t, `{{{`)
	if _, err := Load(invalid); err == nil {
		t.Errorf("Expected an error for malformed YAML")
	}
}

func TestFindPresetFileExplicit(t *testing.T) {
	configPath := writeConfig(t, `version: 1
presets:
  x: {}
`)

	found, err := FindPresetFile(configPath)
	if err != nil {
		t.Fatalf("Failed to find explicit preset file: %v", err)
	}
	if found != configPath {
		t.Errorf("Expected to find '%s', got '%s'", configPath, found)
	}
}
