package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/smc/internal/display"
	"github.com/Zuo-Peng/smc/internal/scan"
	"github.com/Zuo-Peng/smc/internal/search"
	"github.com/Zuo-Peng/smc/internal/session"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	sessionID string
	lineNum   int
	content   string
	hitLine   int
	err       error
}

// loadPreviewCmd renders the hit's full conversation off the main loop,
// returning the output row the hit starts on so the viewport can jump there.
func loadPreviewCmd(file scan.SessionFile, hit search.Hit, width int) tea.Cmd {
	return func() tea.Msg {
		content, hitLine, err := renderConversation(file, hit.LineNum, hit.MatchedQuery, width)
		return previewRenderedMsg{
			sessionID: hit.SessionID,
			lineNum:   hit.LineNum,
			content:   content,
			hitLine:   hitLine,
			err:       err,
		}
	}
}

// renderConversation renders every message of the session wrapped to width,
// marking the message at hitLineNum and highlighting query matches. Returns
// the rendered text and the output row where the hit message begins.
func renderConversation(file scan.SessionFile, hitLineNum int, query string, width int) (string, int, error) {
	records, err := session.ParseNumbered(file.Path)
	if err != nil {
		return "", 0, err
	}
	if width < 10 {
		width = 10
	}
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	row := 0
	hitRow := 0

	for _, r := range records {
		msg := r.Record.AsMessageRecord()
		if msg == nil {
			continue
		}
		if r.LineNum == hitLineNum {
			hitRow = row
		}

		role := r.Record.RoleStr()
		timestamp := msg.Timestamp
		if len(timestamp) > 19 {
			timestamp = timestamp[:19]
		}
		marker := "  "
		if r.LineNum == hitLineNum {
			marker = styleHitMarker.Render("▶ ")
		}
		header := fmt.Sprintf("%s%s %s", marker, styleRole.Render(role), timestamp)

		body := wrap.Render(display.HighlightMatch(msg.TextContent(), query))
		chunk := header + "\n" + body + "\n\n"
		b.WriteString(chunk)
		row += strings.Count(chunk, "\n")
	}

	if b.Len() == 0 {
		return "(empty session)", 0, nil
	}
	return b.String(), hitRow, nil
}

// cwdOf finds a working directory for the resume command by probing the
// hit record first, then the session's first few messages.
func cwdOf(hit search.Hit, file scan.SessionFile) string {
	if msg := hit.Record.AsMessageRecord(); msg != nil && msg.Cwd != "" {
		return msg.Cwd
	}
	records, err := session.ParseRecords(file.Path)
	if err != nil {
		return ""
	}
	for i, r := range records {
		if i >= 5 {
			break
		}
		if msg := r.AsMessageRecord(); msg != nil && msg.Cwd != "" {
			return msg.Cwd
		}
	}
	return ""
}

// newViewport creates a viewport with the panel border style.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
