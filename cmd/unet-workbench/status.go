package main

import (
	"fmt"
	"strings"

	"github.com/DSLituiev/unet-workbench/crowdai"
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

func newPlainTable(withHeader bool) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if withHeader && row == 1 {
				s = headerRowStyle
				return
			}
			switch {
			case row%2 == 0:
				s = oddRowStyle
			default:
				s = evenRowStyle
			}
			if col == 0 {
				s = s.Align(lipgloss.Right)
			} else {
				s = s.Align(lipgloss.Left)
			}
			return
		})
}

// status renders a table with one row per workspace artifact: whether it exists, its
// total size and how many files it holds. Scan only fails on filesystem errors, so
// rendering simply panics through must on those.
func status(w *crowdai.Workspace) error {
	entries := must.M1(w.Scan())

	fmt.Println(titleStyle.Render(fmt.Sprintf("Workspace %s", w.BaseDir)))
	table := newPlainTable(true)
	table.Row("Artifact", "Path", "Present", "Size", "Files")
	for _, entry := range entries {
		if !entry.Present {
			table.Row(entry.Name, entry.Path, "-", "", "")
			continue
		}
		table.Row(entry.Name, entry.Path, "yes",
			humanize.Bytes(uint64(entry.Bytes)), humanize.Comma(int64(entry.Files)))
	}
	fmt.Println(table.Render())

	if missing := missingTools(w); len(missing) > 0 {
		fmt.Printf("External tools not found in PATH: %s\n", strings.Join(missing, ", "))
	}
	return nil
}
