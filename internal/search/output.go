package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// jsonHit is the machine-readable enumeration form, one object per line.
type jsonHit struct {
	Project      string `json:"project"`
	SessionID    string `json:"session_id"`
	Line         int    `json:"line"`
	Role         string `json:"role"`
	Timestamp    string `json:"timestamp"`
	MatchedQuery string `json:"matched_query"`
	Text         string `json:"text"`
}

// MarshalJSONLine renders the hit as a single JSON object suitable for
// line-delimited output. A missing timestamp becomes the literal "unknown".
func (h Hit) MarshalJSONLine() ([]byte, error) {
	var text, timestamp string
	if msg := h.Record.AsMessageRecord(); msg != nil {
		text = msg.TextContent()
		timestamp = msg.Timestamp
	}
	if timestamp == "" {
		timestamp = "unknown"
	}
	return json.Marshal(jsonHit{
		Project:      h.Project,
		SessionID:    h.SessionID,
		Line:         h.LineNum,
		Role:         h.Record.RoleStr(),
		Timestamp:    timestamp,
		MatchedQuery: h.MatchedQuery,
		Text:         text,
	})
}

const previewChars = 500

// FormatHitMarkdown renders one hit as a markdown section: project, role,
// short timestamp, session, line, and a content preview truncated by
// character count (never bytes) with an ellipsis marker.
func FormatHitMarkdown(h Hit) string {
	msg := h.Record.AsMessageRecord()
	if msg == nil {
		return ""
	}

	timestamp := msg.Timestamp
	if timestamp == "" {
		timestamp = "unknown"
	}
	if len(timestamp) > 19 {
		timestamp = timestamp[:19]
	}

	text := msg.TextContent()
	runes := []rune(text)
	preview := text
	if len(runes) > previewChars {
		preview = string(runes[:previewChars]) + "..."
	}

	return fmt.Sprintf(
		"### %s — %s (%s)\n\n> Session: `%s` Line: %d\n\n%s\n",
		h.Project, h.Record.RoleStr(), timestamp, h.SessionID, h.LineNum, preview,
	)
}

// WriteMarkdown writes the full markdown document: a header naming the
// query and active filters, then the pre-rendered hit sections separated by
// horizontal rules.
func WriteMarkdown(w io.Writer, opts Options, sections []string, total int) error {
	if _, err := fmt.Fprintf(w, "# smc Search Results\n\n"); err != nil {
		return err
	}
	fmt.Fprintf(w, "**Query:** `%s`\n", opts.QueryDisplay())

	if filters := opts.FilterDisplay(); len(filters) > 0 {
		fmt.Fprintf(w, "**Filters:** %s\n", strings.Join(filters, ", "))
	}

	fmt.Fprintf(w, "**Results:** %d\n\n", total)
	fmt.Fprintf(w, "---\n\n")

	for _, s := range sections {
		fmt.Fprintln(w, s)
		fmt.Fprintf(w, "---\n\n")
	}

	return nil
}
