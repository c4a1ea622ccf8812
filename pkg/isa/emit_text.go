package isa

import (
	"strconv"
	"strings"
)

const textLabelColumn = 50

// RenderText produces a human-readable diagram: one header line of
// descending bit indices, then one line per format showing each slot as
// a labeled, width-proportional cell. Purely informational — it has no
// effect on the search.
func RenderText(formats []*Format, length int) string {
	var b strings.Builder

	ixWidth := len(strconv.Itoa(length - 1))
	cellWidth := ixWidth + 1

	b.WriteString(strings.Repeat(" ", textLabelColumn))
	b.WriteByte('|')
	for i := length - 1; i >= 0; i-- {
		b.WriteString(padRight(strconv.Itoa(i), ixWidth))
		b.WriteByte('|')
	}
	b.WriteByte('\n')

	for _, f := range formats {
		label := formatLabel(f)
		b.WriteString(padRight(label, textLabelColumn-1))
		b.WriteByte('|')
		for _, s := range f.Bitmask {
			width := s.Width() * cellWidth - 1
			name := s.Name
			if len(name) > width {
				name = name[:width]
			}
			b.WriteString(padRight(name, width))
			b.WriteByte('|')
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func formatLabel(f *Format) string {
	fBits := ""
	for _, s := range f.Bitmask {
		if s.Name == NameFormat {
			fBits = s.Value.Bits
			break
		}
	}
	if fBits == "" {
		return f.Name
	}
	return "F=" + fBits + ", " + f.Name
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
