// Package display renders records, hits, and tables for the terminal.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/Zuo-Peng/smc/internal/model"
)

// PrintRecord renders one message record for the show/context views:
// an indexed role header, then each block in order. Thinking blocks are
// dimmed and truncated harder than text.
func PrintRecord(w io.Writer, record model.Record, index int) {
	msg := record.AsMessageRecord()
	if msg == nil {
		return
	}

	role := record.RoleStr()
	var roleLabel string
	switch role {
	case "user":
		roleLabel = StyleUserBold.Render("USER")
	case "assistant":
		roleLabel = StyleAssistantBold.Render("ASSISTANT")
	case "system":
		roleLabel = StyleSystemBold.Render("SYSTEM")
	default:
		roleLabel = StyleDim.Render("OTHER")
	}

	timestamp := msg.Timestamp
	if timestamp == "" {
		timestamp = "unknown"
	}
	if len(timestamp) > 19 {
		timestamp = timestamp[:19]
	}

	fmt.Fprintln(w, StyleDim.Render(strings.Repeat("─", 80)))
	fmt.Fprintf(w, "[%d] %s %s\n", index, roleLabel, StyleDim.Render(timestamp))

	c := &msg.Message.Content
	if c.Flat {
		fmt.Fprintln(w, Truncate(c.Text, 2000))
		return
	}

	for _, b := range c.Blocks {
		switch b.Kind {
		case model.BlockText:
			fmt.Fprintln(w, Truncate(b.Text, 2000))
		case model.BlockThinking:
			fmt.Fprintf(w, "%s %s\n", StyleDim.Render("💭"), StyleDim.Render(Truncate(b.Thinking, 500)))
		case model.BlockToolUse:
			fmt.Fprintf(w, "%s %s\n", StyleSystem.Render("🔧"), StyleSystemBold.Render(b.ToolName))
			fmt.Fprintf(w, "   %s\n", StyleDim.Render(Truncate(string(b.ToolInput), 200)))
		case model.BlockToolResult:
			if b.ToolContent != nil {
				fmt.Fprintf(w, "%s %s\n", StyleDim.Render("📋"), StyleDim.Render(Truncate(string(b.ToolContent), 300)))
			}
		}
	}
}

// PrintSearchHit renders one enumeration-mode hit as a single console line:
// project:line, role, short date, and a highlighted snippet.
func PrintSearchHit(w io.Writer, project, sessionID string, record model.Record, lineNum int, query string) {
	msg := record.AsMessageRecord()
	if msg == nil {
		return
	}

	role := record.RoleStr()
	var roleLabel string
	switch role {
	case "user":
		roleLabel = StyleUser.Render("user")
	case "assistant":
		roleLabel = StyleAssistant.Render("asst")
	default:
		roleLabel = StyleDim.Render(role)
	}

	timestamp := msg.Timestamp
	if len(timestamp) > 10 {
		timestamp = timestamp[:10]
	}

	snippet := ExtractSnippet(msg.TextContent(), query, 150)
	fmt.Fprintf(w, "%s:%s [%s] %s %s\n",
		StyleAccent.Render(project),
		StyleDim.Render(fmt.Sprintf("L%d", lineNum)),
		roleLabel,
		StyleDim.Render(timestamp),
		HighlightMatch(snippet, query),
	)
}

// PrintSessionHeader renders the one-line session identity used by lists.
func PrintSessionHeader(w io.Writer, project, sessionID, size string) {
	fmt.Fprintf(w, "%s %s %s\n",
		StyleTitle.Render(project),
		StyleDim.Render(sessionID),
		StyleDim.Render("("+size+")"),
	)
}

// FormatToolSummary renders one line per tool-calling message: timestamp,
// role, and the tool names in block order. Returns "" for messages without
// tool calls.
func FormatToolSummary(msg *model.MessageRecord, role string) string {
	tools := msg.ToolCalls()
	if len(tools) == 0 {
		return ""
	}

	timestamp := msg.Timestamp
	if len(timestamp) > 19 {
		timestamp = timestamp[:19]
	}

	styled := make([]string, 0, len(tools))
	for _, t := range tools {
		styled = append(styled, StyleSystemBold.Render(t))
	}
	return fmt.Sprintf("  %s %s %s",
		StyleDim.Render(timestamp),
		StyleAssistant.Render(role),
		strings.Join(styled, ", "),
	)
}
