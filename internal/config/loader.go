package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codalotl/diffpanels/internal/simplelogger"
)

// Environment variables read by DefaultLoader.
var EnvVars = map[string]string{
	"format":         "DIFFPANELS_FORMAT",
	"width":          "DIFFPANELS_WIDTH",
	"strict":         "DIFFPANELS_STRICT",
	"color":          "DIFFPANELS_COLOR",
	"title":          "DIFFPANELS_TITLE",
	"eastasianwidth": "DIFFPANELS_EASTASIANWIDTH",
}

// FileName is the config file name looked up in the user's home and, walking upward, from the working directory.
const FileName = ".diffpanels/config.yaml"

type source interface {
	apply(cfg *Config) error
}

// Loader applies sources, in registration order, over Default(). The zero value is ready to use.
type Loader struct {
	sources []source
}

// New returns an empty Loader. It exists for fluent chaining.
func New() *Loader {
	return &Loader{}
}

// DefaultLoader registers ~/.diffpanels/config.yaml, the nearest .diffpanels/config.yaml above workDir, and EnvVars.
func DefaultLoader(workDir string) *Loader {
	l := New()
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		l = l.WithFile(filepath.Join(home, FileName))
	}
	return l.WithNearestFile(FileName, workDir).WithEnv(EnvVars, os.LookupEnv)
}

// WithFile registers a YAML file. It is read at load time; a missing or empty file contributes nothing.
func (l *Loader) WithFile(path string) *Loader {
	l.sources = append(l.sources, &fileSource{path: path})
	return l
}

// WithNearestFile searches upward from start for the first non-empty file named name and registers it. name must be relative; it panics otherwise. If
// nothing is found, l is unchanged.
func (l *Loader) WithNearestFile(name string, start string) *Loader {
	if filepath.IsAbs(name) {
		panic("config: WithNearestFile name must be relative")
	}
	if start == "" {
		return l
	}
	if fi, err := os.Stat(start); err == nil && !fi.IsDir() {
		start = filepath.Dir(start)
	}
	for dir := start; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, name)
		if data, err := os.ReadFile(candidate); err == nil && len(bytes.TrimSpace(data)) > 0 {
			l.sources = append(l.sources, &fileSource{path: candidate})
			return l
		}
		if filepath.Dir(dir) == dir {
			return l
		}
	}
}

// WithEnv registers environment variables: vars maps a config key to a variable name, and lookup reads variables (typically os.LookupEnv).
func (l *Loader) WithEnv(vars map[string]string, lookup func(string) (string, bool)) *Loader {
	l.sources = append(l.sources, &envSource{vars: vars, lookup: lookup})
	return l
}

// Load applies every source over Default() and validates the result. It fails on the first source that cannot be parsed.
func (l *Loader) Load() (Config, error) {
	cfg := Default()
	for _, src := range l.sources {
		if err := src.apply(&cfg); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if simplelogger.Enabled() {
		for _, k := range keys {
			if p := cfg.Providence[k]; p.SourceType != "default" {
				simplelogger.Log("config: %s from %s", k, p)
			}
		}
	}
	return cfg, nil
}

// fileConfig mirrors Config with pointers so that only keys present in a file are applied.
type fileConfig struct {
	Format         *string    `yaml:"format"`
	Width          *int       `yaml:"width"`
	Strict         *bool      `yaml:"strict"`
	Color          *string    `yaml:"color"`
	Title          *string    `yaml:"title"`
	EastAsianWidth *bool      `yaml:"eastasianwidth"`
	Theme          *fileTheme `yaml:"theme"`
}

type fileTheme struct {
	Matched *int `yaml:"matched"`
	Moved   *int `yaml:"moved"`
	Removed *int `yaml:"removed"`
	Added   *int `yaml:"added"`
}

type fileSource struct {
	path string
}

func (s *fileSource) apply(cfg *Config) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", s.path, err)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config %s: %w", s.path, err)
	}

	prov := Providence{SourceType: "yaml_file", SourceIdentifier: s.path}
	set := func(key string, apply func()) {
		apply()
		cfg.Providence[key] = prov
	}
	if fc.Format != nil {
		set("format", func() { cfg.Format = *fc.Format })
	}
	if fc.Width != nil {
		set("width", func() { cfg.Width = *fc.Width })
	}
	if fc.Strict != nil {
		set("strict", func() { cfg.Strict = *fc.Strict })
	}
	if fc.Color != nil {
		set("color", func() { cfg.Color = *fc.Color })
	}
	if fc.Title != nil {
		set("title", func() { cfg.Title = *fc.Title })
	}
	if fc.EastAsianWidth != nil {
		set("eastasianwidth", func() { cfg.EastAsianWidth = *fc.EastAsianWidth })
	}
	if t := fc.Theme; t != nil {
		if t.Matched != nil {
			set("theme.matched", func() { cfg.Theme.Matched = *t.Matched })
		}
		if t.Moved != nil {
			set("theme.moved", func() { cfg.Theme.Moved = *t.Moved })
		}
		if t.Removed != nil {
			set("theme.removed", func() { cfg.Theme.Removed = *t.Removed })
		}
		if t.Added != nil {
			set("theme.added", func() { cfg.Theme.Added = *t.Added })
		}
	}
	return nil
}

type envSource struct {
	vars   map[string]string
	lookup func(string) (string, bool)
}

func (s *envSource) apply(cfg *Config) error {
	for _, key := range keys {
		name, ok := s.vars[key]
		if !ok {
			continue
		}
		raw, ok := s.lookup(name)
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			continue
		}
		if err := setString(cfg, key, raw); err != nil {
			return fmt.Errorf("env %s: %w", name, err)
		}
		cfg.Providence[key] = Providence{SourceType: "env", SourceIdentifier: name}
	}
	return nil
}

// setString parses raw into the field named by key.
func setString(cfg *Config, key string, raw string) error {
	parseInt := func(dst *int) error {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", key, raw)
		}
		*dst = v
		return nil
	}
	parseBool := func(dst *bool) error {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean", key, raw)
		}
		*dst = v
		return nil
	}

	switch key {
	case "format":
		cfg.Format = raw
	case "width":
		return parseInt(&cfg.Width)
	case "strict":
		return parseBool(&cfg.Strict)
	case "color":
		cfg.Color = raw
	case "title":
		cfg.Title = raw
	case "eastasianwidth":
		return parseBool(&cfg.EastAsianWidth)
	case "theme.matched":
		return parseInt(&cfg.Theme.Matched)
	case "theme.moved":
		return parseInt(&cfg.Theme.Moved)
	case "theme.removed":
		return parseInt(&cfg.Theme.Removed)
	case "theme.added":
		return parseInt(&cfg.Theme.Added)
	default:
		return fmt.Errorf("unknown configuration key %q", key)
	}
	return nil
}

// Set parses raw into key, records providence as a flag, and revalidates. Callers use it to apply command-line flags.
func (c *Config) Set(key string, raw string) error {
	if err := setString(c, key, raw); err != nil {
		return err
	}
	if c.Providence == nil {
		c.Providence = map[string]Providence{}
	}
	c.Providence[key] = Providence{SourceType: "flag", SourceIdentifier: "--" + key}
	return c.Validate()
}

// YAML returns c as YAML with a trailing comment on each key naming its source.
func (c Config) YAML() ([]byte, error) {
	var root yaml.Node
	if err := root.Encode(c); err != nil {
		return nil, err
	}
	annotate(&root, "", c.Providence)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func annotate(n *yaml.Node, prefix string, prov map[string]Providence) {
	if n.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		key := prefix + k.Value
		if v.Kind == yaml.MappingNode {
			annotate(v, key+".", prov)
			continue
		}
		if p, ok := prov[key]; ok {
			v.LineComment = "# " + p.String()
		}
	}
}
