package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Output colours
var (
	brand  = color.New(color.FgHiMagenta, color.Bold)
	subtle = color.New(color.FgHiBlack)
	info   = color.New(color.FgCyan)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

// banner prints the command title.
func banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s · %s\n\n", brand.Sprint("drugnet"), subtitle)
}

// table prints a simple aligned table.
func table(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len([]rune(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len([]rune(cell)) > widths[i] {
				widths[i] = len([]rune(cell))
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += pad(h, widths[i]) + "  "
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	subtle.Fprintln(w, strings.TrimRight(headerLine, " "))
	subtle.Fprintln(w, strings.TrimRight(sepLine, " "))

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += pad(cell, widths[i]) + "  "
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func pad(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
