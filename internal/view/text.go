package view

import (
	"fmt"
	"io"
	"strings"
)

type Glyphs struct {
	Download  string
	Expanded  string
	Collapsed string
}

func DefaultGlyphs() Glyphs {
	return Glyphs{Download: "↓", Expanded: "⊟", Collapsed: "⊞"}
}

func (g Glyphs) For(icon Icon) string {
	switch icon {
	case IconDownload:
		return g.Download
	case IconExpanded:
		return g.Expanded
	default:
		return g.Collapsed
	}
}

// Line formats a row without indentation.
func Line(row Row, g Glyphs) string {
	var b strings.Builder
	b.WriteString(g.For(row.Icon))
	b.WriteString(" ")
	b.WriteString(row.Node.Name)
	if row.HasSize {
		b.WriteString("  ")
		b.WriteString(row.SizeLabel)
	}
	if row.DigestLabel != "" {
		b.WriteString("  [")
		b.WriteString(row.DigestLabel)
		b.WriteString("]")
	}
	return b.String()
}

// Write prints rows as an indented outline, two spaces per level.
func Write(w io.Writer, rows []Row, g Glyphs) error {
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", row.Depth), Line(row, g)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
