package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// SummaryTable renders one row per report: input, kind, records, charts and status.
func SummaryTable(reports []Report) string {
	rows := [][]string{}
	for _, r := range reports {
		status := r.Status()
		records := fmt.Sprintf("%d", r.Records)
		if errors.Is(r.Err, ErrNotFound) {
			status, records = "not found", "-"
		}
		rows = append(rows, []string{
			filepath.Base(r.Path),
			r.Kind.String(),
			records,
			fmt.Sprintf("%d", len(r.Charts)),
			status,
		})
	}
	failed := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Input", "Kind", "Records", "Charts", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row >= 0 && row < len(rows) && col == 4 && rows[row][4] == "failed" {
				return failed
			}
			return lipgloss.NewStyle()
		})
	return t.String()
}
