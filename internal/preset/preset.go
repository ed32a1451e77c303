package preset

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the YAML configuration for rescue presets
type Config struct {
	Default *Options           `yaml:"default"`
	Presets map[string]Options `yaml:"presets"`
	Version int                `yaml:"version"`
}

// Options represents the options for a single preset
type Options struct {
	Symlinks        *bool    `yaml:"symlinks"`
	FollowSymlinks  *bool    `yaml:"follow_symlinks"`
	Hash            *float64 `yaml:"hash"`
	Output          string   `yaml:"output"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
	IncludePatterns []string `yaml:"include_patterns"`
}

// FindPresetFile searches for a preset file in known locations
func FindPresetFile(explicitPath string) (string, error) {
	// check known locations in order
	locations := []string{
		explicitPath,   // explicitly specified file
		"findbrr.yaml", // current directory
	}

	// add user home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations,
			filepath.Join(home, ".config", "findbrr", "findbrr.yaml"), // ~/.config/findbrr/
			filepath.Join(home, ".findbrr", "findbrr.yaml"),           // ~/.findbrr/
		)
	}

	// find first existing preset file
	for _, loc := range locations {
		if loc == "" {
			continue
		}
		if _, err := os.Stat(loc); err == nil {
			return loc, nil
		}
	}

	return "", fmt.Errorf("could not find preset file in known locations")
}

// Load loads presets from a config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not read preset config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("could not parse preset config: %w", err)
	}

	if config.Version != 1 {
		return nil, fmt.Errorf("unsupported preset config version: %d", config.Version)
	}

	if len(config.Presets) == 0 {
		return nil, fmt.Errorf("no presets defined in config")
	}

	return &config, nil
}

// GetPreset returns a preset by name, merged with default settings. The
// pointer fields of the result are always non-nil.
func (c *Config) GetPreset(name string) (*Options, error) {
	preset, ok := c.Presets[name]
	if !ok {
		return nil, fmt.Errorf("preset %q not found", name)
	}

	// start from hardcoded defaults
	defaultSymlinks := false
	defaultFollowSymlinks := false
	defaultHash := 1.0

	merged := Options{
		Symlinks:       &defaultSymlinks,
		FollowSymlinks: &defaultFollowSymlinks,
		Hash:           &defaultHash,
	}

	// if we have defaults in config, use those instead
	if c.Default != nil {
		if c.Default.Symlinks != nil {
			merged.Symlinks = c.Default.Symlinks
		}
		if c.Default.FollowSymlinks != nil {
			merged.FollowSymlinks = c.Default.FollowSymlinks
		}
		if c.Default.Hash != nil {
			merged.Hash = c.Default.Hash
		}
		if c.Default.Output != "" {
			merged.Output = c.Default.Output
		}
		if len(c.Default.ExcludePatterns) > 0 {
			merged.ExcludePatterns = c.Default.ExcludePatterns
		}
		if len(c.Default.IncludePatterns) > 0 {
			merged.IncludePatterns = c.Default.IncludePatterns
		}
	}

	// override with preset values if they are set
	if preset.Symlinks != nil {
		merged.Symlinks = preset.Symlinks
	}
	if preset.FollowSymlinks != nil {
		merged.FollowSymlinks = preset.FollowSymlinks
	}
	if preset.Hash != nil {
		merged.Hash = preset.Hash
	}
	if preset.Output != "" {
		merged.Output = preset.Output
	}
	if len(preset.ExcludePatterns) > 0 {
		merged.ExcludePatterns = preset.ExcludePatterns
	}
	if len(preset.IncludePatterns) > 0 {
		merged.IncludePatterns = preset.IncludePatterns
	}

	return &merged, nil
}
