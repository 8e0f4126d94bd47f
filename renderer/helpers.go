package renderer

import (
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"
)

// escape protects the table pipes.
func escape(cell string) string { return strings.ReplaceAll(cell, "|", `\|`) }

func itoa(i int) string { return strconv.Itoa(i) }

// alignments parses one of 'l', 'r' or 'c' per column.
func alignments(spec string) []md.TableAlignment {
	a := make([]md.TableAlignment, len(spec))
	for i, c := range spec {
		switch c {
		case 'r':
			a[i] = md.AlignRight
		case 'c':
			a[i] = md.AlignCenter
		default:
			a[i] = md.AlignLeft
		}
	}
	return a
}

// row escapes cells for a table row.
func row(cells ...string) []string {
	for i, c := range cells {
		cells[i] = escape(c)
	}
	return cells
}
