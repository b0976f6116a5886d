package highlight

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// Palette holds the chrome colors derived from a Chroma theme. Every field is
// a "#rrggbb" string.
type Palette struct {
	Bg     string
	Fg     string
	Rule   string // resizer lines at rest
	Dim    string // collapsed panes, help text
	Title  string // pane titles
	Accent string // focused resizer
	Error  string // failed sources
}

// ThemePalette derives a Palette from theme. The same theme always yields the
// same palette; unknown themes get the fallback palette.
func ThemePalette(theme string) Palette {
	sty, ok := styles.Registry[theme]
	if !ok || sty == nil {
		return fallbackPalette
	}
	bg, fg := "#000000", "#c8c8c8"
	entry := sty.Get(chroma.Background)
	if entry.Background.IsSet() {
		bg = entry.Background.String()
	}
	if entry.Colour.IsSet() {
		fg = entry.Colour.String()
	}
	errColor := lerp(bg, fg, 0.45)
	if e := sty.Get(chroma.Error); e.Colour.IsSet() {
		errColor = lerp(bg, e.Colour.String(), 0.7)
	}
	return Palette{
		Bg:     bg,
		Fg:     fg,
		Rule:   lerp(bg, fg, 0.2),
		Dim:    lerp(bg, fg, 0.4),
		Title:  lerp(bg, fg, 0.75),
		Accent: mostSaturated(sty, fg),
		Error:  errColor,
	}
}

var fallbackPalette = Palette{
	Bg:     "#000000",
	Fg:     "#c8c8c8",
	Rule:   "#282828",
	Dim:    "#505050",
	Title:  "#969696",
	Accent: "#00dfff",
	Error:  "#c84b4b",
}

func mostSaturated(sty *chroma.Style, fallback string) string {
	best, bestSat := fallback, 0.0
	for _, tt := range sty.Types() {
		e := sty.Get(tt)
		if !e.Colour.IsSet() {
			continue
		}
		hex := e.Colour.String()
		r, g, b := rgb(hex)
		hi, lo := max(r, g, b), min(r, g, b)
		if hi == 0 {
			continue
		}
		if sat := (hi - lo) / hi; sat > bestSat {
			best, bestSat = hex, sat
		}
	}
	return best
}

func lerp(a, b string, t float64) string {
	ar, ag, ab := rgb(a)
	br, bg, bb := rgb(b)
	mix := func(x, y float64) int {
		return int(min(max(x+(y-x)*t, 0), 255) + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", mix(ar, br), mix(ag, bg), mix(ab, bb))
}

func rgb(hex string) (float64, float64, float64) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0
	}
	return float64(r), float64(g), float64(b)
}
