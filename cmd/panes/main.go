package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/panes/internal/config"
	"github.com/xonecas/panes/internal/source"
	"github.com/xonecas/panes/internal/store"
	"github.com/xonecas/panes/internal/tui"
	"github.com/xonecas/panes/internal/watch"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Layout config file (.toml, .yaml or .yml)")
	layoutName := flag.String("layout", "", "Name under which the layout is saved and restored")
	noRestore := flag.Bool("no-restore", false, "Do not restore the saved layout on start")
	noWatch := flag.Bool("no-watch", false, "Do not reload panes when their files change")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error); default $PANES_LOG_LEVEL or info")
	listLayouts := flag.Bool("list-layouts", false, "List saved layouts and exit")
	deleteLayout := flag.String("delete-layout", "", "Delete a saved layout and exit")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: panes [flags] [file ...]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println("panes", version)
		return
	}

	if err := run(options{
		configPath:   *configPath,
		layout:       *layoutName,
		restore:      !*noRestore,
		watch:        !*noWatch,
		logLevel:     *logLevel,
		listLayouts:  *listLayouts,
		deleteLayout: *deleteLayout,
		files:        flag.Args(),
	}); err != nil {
		fmt.Fprintln(os.Stderr, "panes:", err)
		os.Exit(1)
	}
}

type options struct {
	configPath   string
	layout       string
	restore      bool
	watch        bool
	logLevel     string
	listLayouts  bool
	deleteLayout string
	files        []string
}

func run(opts options) error {
	dataDir, err := config.EnsureDataDir()
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}

	logFile, err := setupLogging(dataDir, opts.logLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()

	layouts, err := store.Open(filepath.Join(dataDir, "layouts.db"))
	if err != nil {
		// Run without persistence rather than refuse to start.
		log.Warn().Err(err).Msg("layout store unavailable")
	}
	defer layouts.Close()

	switch {
	case opts.listLayouts:
		return printLayouts(layouts)
	case opts.deleteLayout != "":
		return layouts.Delete(opts.deleteLayout)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	loader := source.NewLoader(cfg.Theme, cwd, source.DefaultTimeout)

	model := tui.New(tui.Options{
		Config:  cfg,
		Loader:  loader,
		Store:   layouts,
		Layout:  opts.layout,
		Restore: opts.restore,
	})
	p := tea.NewProgram(model, tea.WithFilter(tui.MouseEventFilter))

	if paths := watchedPaths(cfg, loader); opts.watch && len(paths) > 0 {
		w, err := watch.New(paths, watch.DefaultDebounce, func(paths []string) {
			p.Send(tui.FilesChangedMsg{Paths: paths})
		})
		if err != nil {
			log.Warn().Err(err).Msg("file watching disabled")
		}
		defer w.Close()
	}

	log.Info().Int("panes", len(cfg.Panes)).Str("split", cfg.Split).Str("layout", opts.layout).Msg("starting")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func loadConfig(opts options) (*config.Config, error) {
	switch {
	case opts.configPath != "":
		return config.Load(opts.configPath)
	case len(opts.files) > 0:
		return config.FromFiles(opts.files)
	}
	return nil, fmt.Errorf("nothing to show: pass files or --config")
}

// setupLogging points the global logger at <dataDir>/panes.log, since the
// terminal belongs to the UI.
func setupLogging(dataDir, level string) (*os.File, error) {
	if level == "" {
		level = os.Getenv("PANES_LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	//nolint:gosec // G304: path is under the data dir
	f, err := os.OpenFile(filepath.Join(dataDir, "panes.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return f, nil
}

// watchedPaths collects the absolute paths read by file: and diff: panes.
func watchedPaths(cfg *config.Config, loader *source.Loader) []string {
	var paths []string
	for _, pc := range cfg.Panes {
		src, err := source.Parse(pc.Source)
		if err != nil {
			continue
		}
		for _, p := range src.Paths() {
			paths = append(paths, loader.Resolve(p))
		}
	}
	return paths
}

func printLayouts(s *store.Store) error {
	layouts, err := s.List()
	if err != nil {
		return err
	}
	for _, l := range layouts {
		fmt.Printf("%s\t%s\t%v\tcollapsed=%v\n", l.Name, l.Updated.Format("2006-01-02 15:04"), l.State.Sizes, l.State.Collapsed)
	}
	return nil
}
