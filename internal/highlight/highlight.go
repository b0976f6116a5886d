// Package highlight renders pane content through Chroma and derives the
// chrome palette (resizer, titles, errors) from the same Chroma theme.
package highlight

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// PlainText is the language name that disables highlighting.
const PlainText = "text"

// Language picks a Chroma language for path, trying the filename patterns
// first and the content second. It returns PlainText when nothing matches.
func Language(path, content string) string {
	if lex := lexers.Match(filepath.Base(path)); lex != nil {
		return strings.ToLower(lex.Config().Name)
	}
	if content != "" {
		if lex := lexers.Analyse(content); lex != nil {
			return strings.ToLower(lex.Config().Name)
		}
	}
	return PlainText
}

// Code returns text with 24-bit ANSI colors for language under theme. Unknown
// languages and tokenizer failures return text untouched.
func Code(text, language, theme string) string {
	if language == "" || language == PlainText {
		return text
	}
	lex := lexers.Get(language)
	if lex == nil {
		return text
	}
	it, err := chroma.Coalesce(lex).Tokenise(nil, text)
	if err != nil {
		return text
	}
	var buf strings.Builder
	if err := formatters.TTY16m.Format(&buf, styles.Get(theme), it); err != nil {
		return text
	}
	return strings.TrimRight(buf.String(), "\n")
}

// Lines splits highlighted output into rows that each render on their own:
// SGR state still open at the end of a row is replayed at the start of the
// next one, so multi-line tokens keep their color when rows are cut.
func Lines(block string) []string {
	rows := strings.Split(block, "\n")
	var open []string
	for i, row := range rows {
		if i > 0 && len(open) > 0 {
			rows[i] = strings.Join(open, "") + row
		}
		open = trackSGR(row, open)
	}
	return rows
}

func trackSGR(row string, open []string) []string {
	for j := 0; j+1 < len(row); j++ {
		if row[j] != '\x1b' || row[j+1] != '[' {
			continue
		}
		k := j + 2
		for k < len(row) && row[k] != 'm' && row[k] != '\x1b' {
			k++
		}
		if k >= len(row) || row[k] != 'm' {
			continue
		}
		switch params := row[j+2 : k]; params {
		case "", "0":
			open = open[:0]
		default:
			open = append(open, row[j:k+1])
		}
		j = k
	}
	return open
}
