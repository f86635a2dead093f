// Package config loads diffpanels settings from a cascade of sources with predictable precedence.
//
// Sources, lowest to highest priority: built-in defaults, YAML files registered with WithFile, the nearest YAML file found by WithNearestFile, and
// environment variables registered with WithEnv. Command-line flags are applied by the caller on top of the loaded Config.
//
// YAML files are decoded strictly: unknown keys are errors. Missing and empty files are skipped. Every field records where its value came from (see
// Providence).
package config

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidConfig is wrapped by errors for values that parse but are not allowed.
var ErrInvalidConfig = errors.New("invalid configuration")

// Output formats.
const (
	FormatHTML = "html"
	FormatTerm = "term"
)

// Color modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Theme holds 256-color backgrounds per token category for terminal output. 0 leaves a category unstyled.
type Theme struct {
	Matched int `yaml:"matched"`
	Moved   int `yaml:"moved"`
	Removed int `yaml:"removed"`
	Added   int `yaml:"added"`
}

// Config is diffpanels' configuration.
type Config struct {
	// Format is the output format: "html" or "term".
	Format string `yaml:"format"`

	// Width is the terminal width in cells. 0 means detect it, falling back to 120.
	Width int `yaml:"width"`

	// Strict validates comparisons before rendering.
	Strict bool `yaml:"strict"`

	// Color is "auto", "always" or "never".
	Color string `yaml:"color"`

	// Title is the HTML page title.
	Title string `yaml:"title"`

	EastAsianWidth bool  `yaml:"eastasianwidth"`
	Theme          Theme `yaml:"theme"`

	// Providence maps each key (ex: "width", "theme.moved") to where its value came from.
	Providence map[string]Providence `yaml:"-"`
}

// Providence is the source of one configuration value.
type Providence struct {
	SourceType       string // "default", "yaml_file", or "env"
	SourceIdentifier string // file path or environment variable name; "" for defaults
}

func (p Providence) String() string {
	if p.SourceIdentifier == "" {
		return p.SourceType
	}
	return p.SourceType + " " + p.SourceIdentifier
}

// Default returns the built-in configuration.
func Default() Config {
	cfg := Config{
		Format: FormatHTML,
		Width:  0,
		Strict: false,
		Color:  ColorAuto,
		Title:  "Text comparison",
		// Light pink for removed text and light green for added text, like unified diff colors, plus light yellow for moved text.
		Theme: Theme{
			Matched: 0,
			Moved:   229,
			Removed: 224,
			Added:   194,
		},
		Providence: map[string]Providence{},
	}
	for _, k := range keys {
		cfg.Providence[k] = Providence{SourceType: "default"}
	}
	return cfg
}

// keys lists every configuration key in display order.
var keys = []string{
	"format", "width", "strict", "color", "title", "eastasianwidth",
	"theme.matched", "theme.moved", "theme.removed", "theme.added",
}

// Keys returns every configuration key in display order.
func Keys() []string {
	return slices.Clone(keys)
}

// Validate reports the first disallowed value, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Format != FormatHTML && c.Format != FormatTerm {
		return fmt.Errorf("%w: format must be %q or %q, got %q", ErrInvalidConfig, FormatHTML, FormatTerm, c.Format)
	}
	if c.Width < 0 {
		return fmt.Errorf("%w: width must be >= 0, got %d", ErrInvalidConfig, c.Width)
	}
	if c.Color != ColorAuto && c.Color != ColorAlways && c.Color != ColorNever {
		return fmt.Errorf("%w: color must be one of auto, always, never; got %q", ErrInvalidConfig, c.Color)
	}
	theme := []struct {
		name string
		v    int
	}{{"matched", c.Theme.Matched}, {"moved", c.Theme.Moved}, {"removed", c.Theme.Removed}, {"added", c.Theme.Added}}
	for _, t := range theme {
		if t.v < 0 || t.v > 255 {
			return fmt.Errorf("%w: theme.%s must be in [0, 255], got %d", ErrInvalidConfig, t.name, t.v)
		}
	}
	return nil
}
