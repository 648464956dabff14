package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/jmylchreest/auratheme/internal/codec"
	"github.com/jmylchreest/auratheme/internal/models"
)

const tablePadding = 2

func writeTable(out io.Writer, headers []string, rows [][]string) error {
	writer := tabwriter.NewWriter(out, 0, 0, tablePadding, ' ', tabwriter.StripEscape)
	if len(headers) > 0 {
		fmt.Fprintln(writer, strings.Join(headers, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(writer, strings.Join(row, "\t"))
	}
	return writer.Flush()
}

// swatch renders a two-cell block in the given color. Terminals without
// color support get plain spaces. The ANSI sequence is wrapped in tabwriter
// escapes so it does not count towards column width.
func swatch(v uint32) string {
	block := lipgloss.NewStyle().
		Background(lipgloss.Color("#" + codec.FormatHex(v&0xFFFFFF))).
		Render("  ")
	return string(tabwriter.Escape) + block + string(tabwriter.Escape)
}

// themeRows lists every field of theme as name, hex value and swatch.
func themeRows(theme models.ColorTheme) [][]string {
	fields := models.AllFields()
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		v, _ := theme.Get(f)
		rows = append(rows, []string{f.String(), codec.FormatHex(v), swatch(v)})
	}
	return rows
}
