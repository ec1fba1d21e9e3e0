package session

import (
	"fmt"
	"io"
	"os"

	"github.com/Zuo-Peng/smc/internal/model"
	"github.com/Zuo-Peng/smc/internal/scan"
)

// Export writes a session as markdown, one section per message, blocks in
// their original order.
func Export(w io.Writer, file scan.SessionFile) error {
	records, err := ParseRecords(file.Path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "# Session %s\n\n", file.SessionID)
	fmt.Fprintf(w, "Project: %s\n\n", file.ProjectName)

	for _, record := range records {
		msg := record.AsMessageRecord()
		if msg == nil {
			continue
		}

		timestamp := msg.Timestamp
		if timestamp == "" {
			timestamp = "unknown"
		}
		fmt.Fprintf(w, "---\n\n## %s — %s\n\n", record.RoleStr(), timestamp)

		c := &msg.Message.Content
		if c.Flat {
			fmt.Fprintf(w, "%s\n\n", c.Text)
			continue
		}

		for _, b := range c.Blocks {
			switch b.Kind {
			case model.BlockText:
				fmt.Fprintf(w, "%s\n\n", b.Text)
			case model.BlockThinking:
				fmt.Fprintf(w, "**Thinking:**\n\n> %s\n\n", b.Thinking)
			case model.BlockToolUse:
				fmt.Fprintf(w, "**Tool: %s**\n\n```json\n%s\n```\n\n", b.ToolName, string(b.ToolInput))
			case model.BlockToolResult:
				if b.ToolContent != nil {
					fmt.Fprintf(w, "**Result:**\n\n```\n%s\n```\n\n", string(b.ToolContent))
				}
			}
		}
	}
	return nil
}

// ExportToFile writes the markdown export to path, defaulting to
// <session-id>.md in the working directory.
func ExportToFile(file scan.SessionFile, path string) (string, error) {
	if path == "" {
		path = file.SessionID + ".md"
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := Export(f, file); err != nil {
		return "", err
	}
	return path, nil
}
