package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/rs/zerolog/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/xonecas/panes/internal/highlight"
)

const (
	// DefaultTimeout bounds a cmd: source.
	DefaultTimeout = 10 * time.Second

	cacheEntries = 64
	tabWidth     = 4
	sniffLen     = 8000
)

// Loader turns sources into pane text. Highlighted files are cached by path,
// modification time and theme. A Loader is safe for concurrent use.
type Loader struct {
	theme   string
	dir     string
	timeout time.Duration
	cache   *lru.Cache[fileKey, string]
}

type fileKey struct {
	path  string
	mtime int64
	size  int64
	theme string
}

// NewLoader returns a Loader resolving relative paths and running commands in
// dir (the working directory when empty).
func NewLoader(theme, dir string, timeout time.Duration) *Loader {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cache, _ := lru.New[fileKey, string](cacheEntries)
	return &Loader{theme: theme, dir: dir, timeout: timeout, cache: cache}
}

// Resolve makes path absolute against the loader's directory.
func (l *Loader) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(l.dir, path)
}

// Load returns the text for src. cmd: sources may return output together with
// an error describing a non-zero exit.
func (l *Loader) Load(ctx context.Context, src Source) (string, error) {
	switch src.Kind {
	case Text:
		return src.Arg, nil
	case File:
		return l.file(src.Arg)
	case Command:
		return l.command(ctx, src.Arg)
	case Diff:
		a, b, _ := strings.Cut(src.Arg, ",")
		return l.diff(a, b)
	}
	return "", fmt.Errorf("unknown source kind %q", src.Kind)
}

func (l *Loader) file(path string) (string, error) {
	abs := l.Resolve(path)
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("file %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("file %s: is a directory", path)
	}
	key := fileKey{path: abs, mtime: info.ModTime().UnixNano(), size: info.Size(), theme: l.theme}
	if out, ok := l.cache.Get(key); ok {
		return out, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("file %s: %w", path, err)
	}
	var out string
	if bytes.IndexByte(data[:min(len(data), sniffLen)], 0) >= 0 {
		out = fmt.Sprintf("binary file, %d bytes", len(data))
	} else {
		text := expandTabs(string(data))
		out = highlight.Code(text, highlight.Language(abs, text), l.theme)
	}
	l.cache.Add(key, out)
	log.Debug().Str("path", abs).Int("bytes", len(data)).Msg("source: file loaded")
	return out, nil
}

func (l *Loader) command(ctx context.Context, command string) (out string, err error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cmd %q: interpreter panic: %v", command, r)
		}
	}()

	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return "", fmt.Errorf("cmd %q: %w", command, err)
	}
	runner, err := interp.New(
		interp.StdIO(nil, &stdout, &stderr),
		interp.Interactive(false),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.Dir(l.dir),
	)
	if err != nil {
		return "", fmt.Errorf("cmd %q: %w", command, err)
	}

	runErr := runner.Run(ctx, file)
	out = expandTabs(strings.TrimRight(stdout.String()+stderr.String(), "\n"))
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return out, fmt.Errorf("cmd %q: %w after %s", command, ErrTimeout, l.timeout)
	}
	var status interp.ExitStatus
	if errors.As(runErr, &status) {
		return out, fmt.Errorf("cmd %q: %w", command, status)
	}
	if runErr != nil {
		return out, fmt.Errorf("cmd %q: %w", command, runErr)
	}
	return out, nil
}

func (l *Loader) diff(a, b string) (string, error) {
	before, err := os.ReadFile(l.Resolve(a))
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", a, err)
	}
	after, err := os.ReadFile(l.Resolve(b))
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", b, err)
	}
	edits := myers.ComputeEdits(span.URIFromPath(a), string(before), string(after))
	unified := fmt.Sprint(gotextdiff.ToUnified(a, b, string(before), edits))
	if unified == "" {
		return "no differences", nil
	}
	return highlight.Code(expandTabs(strings.TrimRight(unified, "\n")), "diff", l.theme), nil
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
