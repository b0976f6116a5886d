// Package tui hosts the split layout in a Bubble Tea program: it draws panes
// and resizers, turns mouse and keyboard input into sizing operations and
// keeps pane content loaded.
package tui

import (
	"context"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/panes/internal/config"
	"github.com/xonecas/panes/internal/highlight"
	"github.com/xonecas/panes/internal/sizing"
	"github.com/xonecas/panes/internal/source"
	"github.com/xonecas/panes/internal/store"
)

// Options configure a Model.
type Options struct {
	Config *config.Config
	Loader *source.Loader
	// Store and Layout enable persistence: the named layout is restored on
	// the first resize when Restore is set, and saved on ctrl+s and on quit.
	Store   *store.Store
	Layout  string
	Restore bool
}

// Model is the application model.
type Model struct {
	cfg     *config.Config
	loader  *source.Loader
	store   *store.Store
	name    string
	restore bool

	width  int
	height int
	geo    geometry
	layout layout
	split  *splitState
	panes  []pane

	keys   keyMap
	help   help.Model
	styles Styles

	focus  int // keyboard-focused resizer, -1 for none
	hover  hoverState
	notice string
}

type pane struct {
	title    string
	src      source.Source
	viewport viewport.Model
	gen      int // load generation, bumped on every (re)load
	loaded   bool
}

// splitState is shared by every copy of the Model so the splitter's live
// size callback always sees the current extent.
type splitState struct {
	splitter *sizing.Splitter
	extent   int
	cells    []int
}

func (s *splitState) live() []float64 {
	sizes := s.splitter.Sizes()
	if s.extent <= 0 {
		return sizes
	}
	return sizing.Fit(sizes, float64(s.extent))
}

func (s *splitState) onChange(sizes []float64) {
	s.cells = sizing.Cells(sizes, s.splitter.Constraints(), s.extent)
}

// New creates a Model. The splitter is built on the first WindowSizeMsg,
// once the extent the panes share is known.
func New(opts Options) Model {
	cfg := opts.Config
	loader := opts.Loader
	if loader == nil {
		loader = source.NewLoader(cfg.Theme, "", 0)
	}

	panes := make([]pane, len(cfg.Panes))
	for i, pc := range cfg.Panes {
		src, err := source.Parse(pc.Source)
		if err != nil {
			log.Warn().Err(err).Int("pane", i).Msg("tui: bad source, showing it as text")
			src = source.Source{Kind: source.Text, Arg: err.Error()}
		}
		vp := viewport.New()
		panes[i] = pane{title: pc.Title, src: src, viewport: vp}
	}

	return Model{
		cfg:     cfg,
		loader:  loader,
		store:   opts.Store,
		name:    opts.Layout,
		restore: opts.Restore,
		geo: geometry{
			vertical:     cfg.Vertical(),
			rtl:          cfg.Vertical() && cfg.RTL(),
			grabber:      max(cfg.Resizer.GrabberSize, 1),
			buttonOffset: cfg.Collapse.ButtonOffset,
		},
		panes:  panes,
		keys:   newKeyMap(cfg.Vertical()),
		help:   help.New(),
		styles: NewStyles(highlight.ThemePalette(cfg.Theme), cfg.Resizer),
		focus:  -1,
		hover:  hoverState{target: -1, shown: -1},
	}
}

// Init loads every pane.
func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.panes))
	for i := range m.panes {
		cmds[i] = m.loadPane(i)
	}
	return tea.Batch(cmds...)
}

// contentMsg carries loaded pane text back to the update loop.
type contentMsg struct {
	pane int
	gen  int
	text string
	err  error
}

// FilesChangedMsg reports files that changed on disk; panes reading any of
// them are reloaded.
type FilesChangedMsg struct {
	Paths []string
}

// layoutSavedMsg reports the outcome of a layout save.
type layoutSavedMsg struct {
	name string
	err  error
}

// loadPane starts loading pane i off the update loop. Results of older loads
// of the same pane are discarded by generation.
func (m *Model) loadPane(i int) tea.Cmd {
	m.panes[i].gen++
	gen, src, loader := m.panes[i].gen, m.panes[i].src, m.loader
	return func() tea.Msg {
		text, err := loader.Load(context.Background(), src)
		return contentMsg{pane: i, gen: gen, text: text, err: err}
	}
}

func (m *Model) reloadAll() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.panes))
	for i := range m.panes {
		cmds[i] = m.loadPane(i)
	}
	return tea.Batch(cmds...)
}

// reloadPaths reloads the panes whose source reads one of paths.
func (m *Model) reloadPaths(paths []string) tea.Cmd {
	changed := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		changed[p] = struct{}{}
	}
	var cmds []tea.Cmd
	for i, p := range m.panes {
		for _, path := range p.src.Paths() {
			if _, ok := changed[m.loader.Resolve(path)]; ok {
				cmds = append(cmds, m.loadPane(i))
				break
			}
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleContent(msg contentMsg) {
	if msg.pane < 0 || msg.pane >= len(m.panes) {
		return
	}
	p := &m.panes[msg.pane]
	if msg.gen != p.gen {
		return
	}
	text := msg.text
	if msg.err != nil {
		log.Warn().Err(msg.err).Int("pane", msg.pane).Str("source", p.src.String()).Msg("tui: pane load failed")
		errLine := m.styles.Error.Render(msg.err.Error())
		if text == "" {
			text = errLine
		} else {
			text += "\n" + errLine
		}
	}
	p.viewport.SetContentLines(highlight.Lines(text))
	p.loaded = true
}

// initSplit builds the splitter for the first known extent, restoring the
// saved layout when asked to.
func (m *Model) initSplit(extent int) {
	sizes, weighted := m.cfg.InitialSizes()
	if weighted && extent > 0 {
		sizes = sizing.Weights(sizes, float64(extent))
	}
	st := &splitState{extent: extent}
	st.splitter = sizing.NewSplitter(sizing.Options{
		Sizes:         sizes,
		MinSizes:      m.cfg.Floors(),
		CollapsedSize: m.cfg.CollapsedSize,
		Collapsed:     m.cfg.CollapsedIndices(),
	}, st.live)
	st.splitter.OnChange = st.onChange
	m.split = st

	if m.restore && m.name != "" {
		if saved, ok := m.store.Load(m.name); ok {
			if st.splitter.Apply(saved) {
				log.Info().Str("layout", m.name).Msg("tui: restored layout")
			} else {
				log.Warn().Str("layout", m.name).Int("panes", len(m.panes)).Msg("tui: saved layout does not fit, ignoring")
			}
		}
	}
	st.splitter.Resize()
}

// saveFunc returns a function persisting the current layout, or nil when
// persistence is off.
func (m *Model) saveFunc() func() error {
	if m.split == nil || m.name == "" || m.store == nil {
		return nil
	}
	st, name, s := m.split.splitter.State(), m.name, m.store
	return func() error { return s.Save(name, st) }
}

func (m *Model) saveCmd() tea.Cmd {
	save := m.saveFunc()
	if save == nil {
		m.notice = "no layout to save (start with --layout NAME)"
		return nil
	}
	name := m.name
	return func() tea.Msg { return layoutSavedMsg{name: name, err: save()} }
}

// quitCmd saves the layout, if any, then quits.
func (m *Model) quitCmd() tea.Cmd {
	save := m.saveFunc()
	name := m.name
	return func() tea.Msg {
		if save != nil {
			if err := save(); err != nil {
				log.Warn().Err(err).Str("layout", name).Msg("tui: failed to save layout on quit")
			}
		}
		return tea.Quit()
	}
}
