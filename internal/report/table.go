// Package report formats experiment results for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// WriteTable writes rows under headers with columns padded to their widest
// cell. Widths are display widths, so labels like "λ" and "ΔS" align.
func WriteTable(w io.Writer, headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		if len(row) != len(headers) {
			return fmt.Errorf("row has %d cells, want %d", len(row), len(headers))
		}
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	if err := writeRow(w, headers, widths); err != nil {
		return err
	}
	rule := make([]string, len(headers))
	for i, wd := range widths {
		rule[i] = strings.Repeat("-", wd)
	}
	if err := writeRow(w, rule, widths); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, cells []string, widths []int) error {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		if i == len(cells)-1 {
			padded[i] = cell
			continue
		}
		padded[i] = runewidth.FillRight(cell, widths[i])
	}
	_, err := fmt.Fprintln(w, strings.Join(padded, "  "))
	return err
}

// Float formats v with six decimals for table cells.
func Float(v float64) string {
	return fmt.Sprintf("%.6f", v)
}
