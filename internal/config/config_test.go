package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const sampleTOML = `
split = "horizontal"
collapsed_size = 2
min_sizes = [4, 6, 8]

[collapse]
button_offset = -40
show_delay_ms = 75

[[panes]]
title = "a"
source = "file:a.go"
weight = 2

[[panes]]
title = "b"
source = "cmd:ls"
collapsed = true

[[panes]]
title = "c"
source = "text:hello"
`

func TestLoadTOML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "panes.toml", sampleTOML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Vertical() {
		t.Error("expected horizontal split")
	}
	if cfg.CollapsedSize != 2 {
		t.Errorf("collapsed_size = %v", cfg.CollapsedSize)
	}
	if got := cfg.Floors().Resolve(3); !slices.Equal(got, []float64{4, 6, 8}) {
		t.Errorf("min sizes = %v", got)
	}
	if cfg.Collapse.ButtonOffset != -40 || cfg.Collapse.ShowDelay() != 75*time.Millisecond {
		t.Errorf("collapse = %+v", cfg.Collapse)
	}
	// Defaults survive partial sections.
	if cfg.Collapse.HideDelay() != 100*time.Millisecond || !cfg.Collapse.Enabled {
		t.Errorf("collapse defaults lost: %+v", cfg.Collapse)
	}
	sizes, weighted := cfg.InitialSizes()
	if !weighted || !slices.Equal(sizes, []float64{2, 1, 1}) {
		t.Errorf("InitialSizes = %v, %v", sizes, weighted)
	}
	if got := cfg.CollapsedIndices(); !slices.Equal(got, []int{1}) {
		t.Errorf("CollapsedIndices = %v", got)
	}
}

func TestLoadYAML(t *testing.T) {
	body := `
split: vertical
direction: rtl
min_size: 5
panes:
  - title: left
    source: "text:left"
    size: 30
  - title: right
    source: "text:right"
    size: 50
`
	cfg, err := Load(writeConfig(t, "panes.yaml", body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.RTL() {
		t.Error("expected rtl")
	}
	if got := cfg.Floors().Resolve(2); !slices.Equal(got, []float64{5, 5}) {
		t.Errorf("min sizes = %v", got)
	}
	sizes, weighted := cfg.InitialSizes()
	if weighted || !slices.Equal(sizes, []float64{30, 50}) {
		t.Errorf("InitialSizes = %v, %v", sizes, weighted)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "bad.toml", "split = [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	two := []PaneConfig{{Source: "text:a"}, {Source: "text:b"}}
	neg := -1.0
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no panes", func(c *Config) { c.Panes = nil }, "at least one pane"},
		{"bad split", func(c *Config) { c.Split = "diagonal" }, "split="},
		{"rtl horizontal", func(c *Config) { c.Split = SplitHorizontal; c.Direction = DirectionRTL }, "requires split"},
		{"negative collapsed", func(c *Config) { c.CollapsedSize = -2 }, "collapsed_size"},
		{"min length mismatch", func(c *Config) { c.MinSizes = []float64{1, 2, 3} }, "min_sizes has 3 entries"},
		{"min both", func(c *Config) { one := 1.0; c.MinSize = &one; c.MinSizes = []float64{1, 1} }, "mutually exclusive"},
		{"negative min", func(c *Config) { c.MinSize = &neg }, "min_size=-1"},
		{"bad source", func(c *Config) { c.Panes[0].Source = "http://x" }, "panes[0].source"},
		{"mixed sizes", func(c *Config) { c.Panes[0].Size = 10 }, "every pane or on none"},
		{"bad color", func(c *Config) { c.Resizer.Color = "red" }, "resizer.color"},
		{"bad offset", func(c *Config) { c.Collapse.ButtonOffset = 150 }, "button_offset"},
		{"bad grabber", func(c *Config) { c.Resizer.GrabberSize = 0 }, "grabber_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Panes = slices.Clone(two)
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Split = "x"
	cfg.CollapsedSize = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"split=", "collapsed_size", "at least one pane"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("joined error %q missing %q", err, want)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PANES_SPLIT", "horizontal")
	t.Setenv("PANES_COLLAPSED_SIZE", "3.5")
	t.Setenv("PANES_THEME", "dracula")

	cfg, err := FromFiles([]string{"a.go", "dir/b.go"})
	if err != nil {
		t.Fatalf("FromFiles: %v", err)
	}
	if cfg.Split != SplitHorizontal || cfg.CollapsedSize != 3.5 || cfg.Theme != "dracula" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Panes[1].Title != "b.go" || cfg.Panes[1].Source != "file:dir/b.go" {
		t.Errorf("pane = %+v", cfg.Panes[1])
	}

	t.Setenv("PANES_COLLAPSED_SIZE", "wide")
	if _, err := FromFiles([]string{"a.go"}); err == nil {
		t.Fatal("expected error for unparsable PANES_COLLAPSED_SIZE")
	}
}
