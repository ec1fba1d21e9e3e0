package session

import (
	"fmt"
	"io"
	"strings"

	"github.com/Zuo-Peng/smc/internal/display"
	"github.com/Zuo-Peng/smc/internal/model"
	"github.com/Zuo-Peng/smc/internal/scan"
)

// ShowOptions controls the show command. To == -1 means "until the end".
type ShowOptions struct {
	Thinking bool
	From     int
	To       int
}

// Show renders a whole conversation, message by message in file order.
// Thinking blocks are dropped unless opts.Thinking is set; From/To bound
// the displayed message indices.
func Show(w io.Writer, file scan.SessionFile, opts ShowOptions) error {
	records, err := ParseRecords(file.Path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Session: %s | Project: %s | Size: %s\n\n",
		file.SessionID, file.ProjectName, file.SizeHuman())

	index := 0
	shown := 0
	for _, record := range records {
		if !record.IsMessage() {
			continue
		}
		i := index
		index++

		if i < opts.From {
			continue
		}
		if opts.To >= 0 && i > opts.To {
			break
		}

		r := record
		if !opts.Thinking {
			r = stripThinking(r)
		}
		display.PrintRecord(w, r, i)
		shown++
	}

	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "%d messages displayed\n", shown)
	return nil
}

// stripThinking returns a copy of the record with thinking blocks removed.
func stripThinking(record model.Record) model.Record {
	msg := record.AsMessageRecord()
	if msg == nil || msg.Message.Content.Flat {
		return record
	}

	kept := make([]model.ContentBlock, 0, len(msg.Message.Content.Blocks))
	for _, b := range msg.Message.Content.Blocks {
		if b.Kind == model.BlockThinking {
			continue
		}
		kept = append(kept, b)
	}
	if len(kept) == len(msg.Message.Content.Blocks) {
		return record
	}

	copied := *msg
	copied.Message.Content.Blocks = kept
	out := record
	out.Msg = &copied
	return out
}

// Tools renders one line per tool-calling message of a session.
func Tools(w io.Writer, file scan.SessionFile) error {
	records, err := ParseRecords(file.Path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Tool calls in session: %s (%s)\n\n", file.SessionID, file.ProjectName)

	count := 0
	for _, record := range records {
		msg := record.AsMessageRecord()
		if msg == nil {
			continue
		}
		if summary := display.FormatToolSummary(msg, record.RoleStr()); summary != "" {
			fmt.Fprintln(w, summary)
			count++
		}
	}

	fmt.Fprintf(w, "\n%d tool-calling messages\n", count)
	return nil
}

// Context renders the messages around a given line number: the message at
// (or nearest to) the line, plus n messages on either side.
func Context(w io.Writer, file scan.SessionFile, line, n int) error {
	records, err := ParseNumbered(file.Path)
	if err != nil {
		return err
	}

	messages := make([]NumberedRecord, 0, len(records))
	for _, r := range records {
		if r.Record.IsMessage() {
			messages = append(messages, r)
		}
	}
	if len(messages) == 0 {
		return fmt.Errorf("no messages in session '%s'", file.SessionID)
	}

	// Pick the message at the line, or the nearest one.
	center := 0
	bestDist := -1
	for i, m := range messages {
		dist := m.LineNum - line
		if dist < 0 {
			dist = -dist
		}
		if bestDist == -1 || dist < bestDist {
			bestDist = dist
			center = i
		}
	}

	start := center - n
	if start < 0 {
		start = 0
	}
	end := center + n
	if end >= len(messages) {
		end = len(messages) - 1
	}

	fmt.Fprintf(w, "Session: %s | Project: %s | around line %d\n\n",
		file.SessionID, file.ProjectName, messages[center].LineNum)

	for i := start; i <= end; i++ {
		marker := " "
		if i == center {
			marker = display.StyleMatch.Render("▶")
		}
		fmt.Fprintf(w, "%s L%d\n", marker, messages[i].LineNum)
		display.PrintRecord(w, messages[i].Record, i)
	}
	return nil
}
