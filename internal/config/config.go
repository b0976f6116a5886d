// Package config handles layout configuration loading from TOML or YAML files
// and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/xonecas/panes/internal/sizing"
)

// Split orientations.
const (
	SplitVertical   = "vertical"   // panes side by side, resizers are columns
	SplitHorizontal = "horizontal" // panes stacked, resizers are rows
)

// Directions for vertical splits.
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// Config is the root configuration structure.
type Config struct {
	Split         string    `toml:"split" yaml:"split"`
	Direction     string    `toml:"direction" yaml:"direction"`
	CollapsedSize float64   `toml:"collapsed_size" yaml:"collapsed_size"`
	MinSize       *float64  `toml:"min_size" yaml:"min_size"`
	MinSizes      []float64 `toml:"min_sizes" yaml:"min_sizes"`

	// Theme is the Chroma theme used for pane content and UI chrome.
	Theme string `toml:"theme" yaml:"theme"`

	Resizer  ResizerConfig  `toml:"resizer" yaml:"resizer"`
	Collapse CollapseConfig `toml:"collapse" yaml:"collapse"`
	Panes    []PaneConfig   `toml:"panes" yaml:"panes"`
}

// ResizerConfig holds the look of the draggable boundaries.
type ResizerConfig struct {
	GrabberSize int    `toml:"grabber_size" yaml:"grabber_size"`
	Color       string `toml:"color" yaml:"color"`
	HoverColor  string `toml:"hover_color" yaml:"hover_color"`
}

// CollapseConfig holds the collapse button settings.
type CollapseConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
	// ButtonOffset moves the button along the resizer; 0 centers it,
	// -100 and 100 push it to either end.
	ButtonOffset int    `toml:"button_offset" yaml:"button_offset"`
	BeforeButton string `toml:"before_button" yaml:"before_button"`
	AfterButton  string `toml:"after_button" yaml:"after_button"`
	ShowDelayMS  int    `toml:"show_delay_ms" yaml:"show_delay_ms"`
	HideDelayMS  int    `toml:"hide_delay_ms" yaml:"hide_delay_ms"`
}

// ShowDelay is how long the pointer must rest on a resizer before the button appears.
func (c CollapseConfig) ShowDelay() time.Duration {
	return time.Duration(c.ShowDelayMS) * time.Millisecond
}

// HideDelay is how long the button lingers after the pointer leaves.
func (c CollapseConfig) HideDelay() time.Duration {
	return time.Duration(c.HideDelayMS) * time.Millisecond
}

// PaneConfig describes one pane.
type PaneConfig struct {
	Title string `toml:"title" yaml:"title"`
	// Source is one of file:PATH, cmd:COMMAND, diff:OLD,NEW or text:LITERAL.
	Source    string  `toml:"source" yaml:"source"`
	Weight    float64 `toml:"weight" yaml:"weight"`
	Size      float64 `toml:"size" yaml:"size"`
	Collapsed bool    `toml:"collapsed" yaml:"collapsed"`
}

// SourceKinds lists the accepted pane source prefixes.
var SourceKinds = []string{"file", "cmd", "diff", "text"}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Split:         SplitVertical,
		Direction:     DirectionLTR,
		CollapsedSize: 1,
		Theme:         "github-dark",
		Resizer: ResizerConfig{
			GrabberSize: 1,
			Color:       "#3a3a3a",
			HoverColor:  "#7a7a7a",
		},
		Collapse: CollapseConfig{
			Enabled:      true,
			BeforeButton: "◂",
			AfterButton:  "▸",
			ShowDelayMS:  50,
			HideDelayMS:  100,
		},
	}
}

// Load reads configuration from a TOML or YAML file (by extension) and
// applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if err := decodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromFiles builds a configuration with one file pane per path, applying
// environment overrides.
func FromFiles(paths []string) (*Config, error) {
	cfg := Default()
	for _, p := range paths {
		cfg.Panes = append(cfg.Panes, PaneConfig{
			Title:  filepath.Base(p),
			Source: "file:" + p,
			Weight: 1,
		})
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		//nolint:gosec // G304: path comes from the command line
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return yaml.Unmarshal(data, cfg)
	default:
		_, err := toml.DecodeFile(path, cfg)
		return err
	}
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	switch c.Split {
	case SplitVertical, SplitHorizontal:
	default:
		errs = append(errs, fmt.Errorf("split=%q must be %q or %q", c.Split, SplitVertical, SplitHorizontal))
	}

	switch c.Direction {
	case DirectionLTR:
	case DirectionRTL:
		if c.Split == SplitHorizontal {
			errs = append(errs, errors.New("direction=\"rtl\" requires split=\"vertical\""))
		}
	default:
		errs = append(errs, fmt.Errorf("direction=%q must be %q or %q", c.Direction, DirectionLTR, DirectionRTL))
	}

	if c.CollapsedSize < 0 {
		errs = append(errs, fmt.Errorf("collapsed_size=%v must not be negative", c.CollapsedSize))
	}

	errs = append(errs, c.validateMinSizes()...)
	errs = append(errs, c.validatePanes()...)
	errs = append(errs, c.validateChrome()...)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func (c *Config) validateMinSizes() []error {
	var errs []error
	if c.MinSize != nil && len(c.MinSizes) > 0 {
		errs = append(errs, errors.New("min_size and min_sizes are mutually exclusive"))
	}
	if c.MinSize != nil && *c.MinSize < 0 {
		errs = append(errs, fmt.Errorf("min_size=%v must not be negative", *c.MinSize))
	}
	if len(c.MinSizes) > 0 && len(c.MinSizes) != len(c.Panes) {
		errs = append(errs, fmt.Errorf("min_sizes has %d entries, want one per pane (%d)", len(c.MinSizes), len(c.Panes)))
	}
	for i, v := range c.MinSizes {
		if v < 0 {
			errs = append(errs, fmt.Errorf("min_sizes[%d]=%v must not be negative", i, v))
		}
	}
	return errs
}

func (c *Config) validatePanes() []error {
	var errs []error
	if len(c.Panes) == 0 {
		return append(errs, errors.New("panes: at least one pane must be configured"))
	}

	sized := 0
	for i, p := range c.Panes {
		kind, _, ok := strings.Cut(p.Source, ":")
		if !ok || !validSourceKind(kind) {
			errs = append(errs, fmt.Errorf("panes[%d].source=%q must start with one of %s", i, p.Source, strings.Join(SourceKinds, ":, ")+":"))
		}
		if p.Weight < 0 {
			errs = append(errs, fmt.Errorf("panes[%d].weight=%v must not be negative", i, p.Weight))
		}
		if p.Size < 0 {
			errs = append(errs, fmt.Errorf("panes[%d].size=%v must not be negative", i, p.Size))
		}
		if p.Size > 0 {
			sized++
		}
	}
	if sized > 0 && sized != len(c.Panes) {
		errs = append(errs, errors.New("panes: size must be set on every pane or on none"))
	}
	return errs
}

func (c *Config) validateChrome() []error {
	var errs []error
	if c.Resizer.GrabberSize < 1 {
		errs = append(errs, fmt.Errorf("resizer.grabber_size=%d must be at least 1", c.Resizer.GrabberSize))
	}
	for name, v := range map[string]string{"resizer.color": c.Resizer.Color, "resizer.hover_color": c.Resizer.HoverColor} {
		if !hexColorRe.MatchString(v) {
			errs = append(errs, fmt.Errorf("%s=%q must be a #rrggbb color", name, v))
		}
	}
	if c.Collapse.ButtonOffset < -100 || c.Collapse.ButtonOffset > 100 {
		errs = append(errs, fmt.Errorf("collapse.button_offset=%d must be between -100 and 100", c.Collapse.ButtonOffset))
	}
	if c.Collapse.ShowDelayMS < 0 || c.Collapse.HideDelayMS < 0 {
		errs = append(errs, errors.New("collapse delays must not be negative"))
	}
	return errs
}

func validSourceKind(kind string) bool {
	for _, k := range SourceKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Vertical reports whether panes sit side by side.
func (c *Config) Vertical() bool { return c.Split == SplitVertical }

// RTL reports whether a vertical split is mirrored.
func (c *Config) RTL() bool { return c.Direction == DirectionRTL }

// Floors returns the configured minimum sizes in the form the sizing core takes.
func (c *Config) Floors() sizing.MinSizes {
	m := sizing.MinSizes{PerPane: c.MinSizes}
	if c.MinSize != nil {
		m.Scalar = *c.MinSize
	}
	return m
}

// InitialSizes returns the initial distribution. Absolute cell sizes are
// returned as-is; otherwise the pane weights are returned (unset weights count
// as 1) and weighted is true.
func (c *Config) InitialSizes() (sizes []float64, weighted bool) {
	sizes = make([]float64, len(c.Panes))
	for i, p := range c.Panes {
		if p.Size > 0 {
			sizes[i] = p.Size
			continue
		}
		weighted = true
		sizes[i] = p.Weight
		if sizes[i] == 0 {
			sizes[i] = 1
		}
	}
	return sizes, weighted
}

// CollapsedIndices returns the panes configured to start collapsed.
func (c *Config) CollapsedIndices() []int {
	var out []int
	for i, p := range c.Panes {
		if p.Collapsed {
			out = append(out, i)
		}
	}
	return out
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	var errs []error
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"PANES_SPLIT", func(v string) {
			if v != "" {
				cfg.Split = v
			}
		}},
		{"PANES_THEME", func(v string) {
			if v != "" {
				cfg.Theme = v
			}
		}},
		{"PANES_COLLAPSED_SIZE", func(v string) {
			if v == "" {
				return
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("PANES_COLLAPSED_SIZE=%q: %w", v, err))
				return
			}
			cfg.CollapsedSize = f
		}},
	} {
		setter.apply(os.Getenv(setter.env))
	}
	return errors.Join(errs...)
}

// DataDir returns the path to the panes data directory (~/.config/panes).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "panes"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}
