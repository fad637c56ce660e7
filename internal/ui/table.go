package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders aligned columnar output: a muted header row followed by
// plain rows. Column widths come from the widest cell in each column.
func (u *UI) Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	formatRow := func(cells []string) string {
		parts := make([]string, 0, len(cells))
		for i, cell := range cells {
			if i < len(widths) {
				parts = append(parts, fmt.Sprintf("%-*s", widths[i], cell))
			}
		}
		return "  " + strings.Join(parts, "  ")
	}

	var sb strings.Builder
	header := formatRow(headers)
	if u.shouldStyle() {
		headerStyle := lipgloss.NewStyle().Foreground(ColorMuted).Bold(true)
		sb.WriteString(headerStyle.Render(header))
	} else {
		sb.WriteString(header)
	}
	sb.WriteString("\n")

	for _, row := range rows {
		sb.WriteString(formatRow(row))
		sb.WriteString("\n")
	}

	return sb.String()
}
