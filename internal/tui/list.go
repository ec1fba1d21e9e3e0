package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/smc/internal/search"
)

// linesPerItem is the number of terminal lines each hit occupies.
const linesPerItem = 2

// renderList renders the left panel: hit list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No results")
	}

	var lines []string
	for i, hit := range m.results {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatHitLine(hit, width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// formatHitLine formats a single hit as two lines:
//
//	line 1: [>] project  MM-DD  role:L<n>
//	line 2:    snippet (dimmed)
func formatHitLine(hit search.Hit, width int, selected bool) []string {
	msg := hit.Record.AsMessageRecord()

	date := ""
	text := ""
	if msg != nil {
		if len(msg.Timestamp) >= 10 {
			date = msg.Timestamp[5:10] // MM-DD
		}
		text = msg.TextContent()
	}

	project := hit.Project
	projectMax := width - 2 - 6 - 14
	if projectMax < 8 {
		projectMax = 8
	}
	if runewidth.StringWidth(project) > projectMax {
		project = runewidth.Truncate(project, projectMax, "")
	}

	line1 := fmt.Sprintf("%s %s %s",
		styleProject.Render(project),
		date,
		styleRole.Render(fmt.Sprintf("%s:L%d", hit.Record.RoleStr(), hit.LineNum)))
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	snippet := strings.ReplaceAll(text, "\n", " ")
	snippet = strings.ReplaceAll(snippet, "\t", " ")
	snippetMax := width - 4
	if snippetMax < 0 {
		snippetMax = 0
	}
	if runewidth.StringWidth(snippet) > snippetMax {
		snippet = runewidth.Truncate(snippet, snippetMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(snippet)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
