package model

import (
	"fmt"
	"strings"
)

// TextContent concatenates all block content in order, newline-joined.
// Tool blocks are rendered in a bracketed form so searches can reach into
// tool names, inputs, and results. Flat string bodies are returned verbatim.
func (m *MessageRecord) TextContent() string {
	c := &m.Message.Content
	if c.Flat {
		return c.Text
	}
	var parts []string
	for _, b := range c.Blocks {
		switch b.Kind {
		case BlockText:
			parts = append(parts, b.Text)
		case BlockThinking:
			parts = append(parts, b.Thinking)
		case BlockToolUse:
			parts = append(parts, fmt.Sprintf("[tool: %s] %s", b.ToolName, b.ToolInput))
		case BlockToolResult:
			if b.ToolContent != nil {
				parts = append(parts, fmt.Sprintf("[result] %s", b.ToolContent))
			}
		}
	}
	return strings.Join(parts, "\n")
}

// TextContentNoThinking is TextContent with thinking blocks omitted, for
// matching and export paths that must not leak thinking content.
func (m *MessageRecord) TextContentNoThinking() string {
	c := &m.Message.Content
	if c.Flat {
		return c.Text
	}
	var parts []string
	for _, b := range c.Blocks {
		switch b.Kind {
		case BlockText:
			parts = append(parts, b.Text)
		case BlockToolUse:
			parts = append(parts, fmt.Sprintf("[tool: %s] %s", b.ToolName, b.ToolInput))
		case BlockToolResult:
			if b.ToolContent != nil {
				parts = append(parts, fmt.Sprintf("[result] %s", b.ToolContent))
			}
		}
	}
	return strings.Join(parts, "\n")
}

// ToolCalls returns the tool names invoked by this message, in block order.
// Flat string bodies have no tool calls.
func (m *MessageRecord) ToolCalls() []string {
	c := &m.Message.Content
	if c.Flat {
		return nil
	}
	var names []string
	for _, b := range c.Blocks {
		if b.Kind == BlockToolUse {
			names = append(names, b.ToolName)
		}
	}
	return names
}

// ThinkingContent returns only the thinking block text, newline-joined.
func (m *MessageRecord) ThinkingContent() string {
	c := &m.Message.Content
	if c.Flat {
		return ""
	}
	var parts []string
	for _, b := range c.Blocks {
		if b.Kind == BlockThinking {
			parts = append(parts, b.Thinking)
		}
	}
	return strings.Join(parts, "\n")
}

// ToolInputContent returns only the tool invocation arguments, one
// "[name] input" line per call, in block order.
func (m *MessageRecord) ToolInputContent() string {
	c := &m.Message.Content
	if c.Flat {
		return ""
	}
	var parts []string
	for _, b := range c.Blocks {
		if b.Kind == BlockToolUse {
			parts = append(parts, fmt.Sprintf("[%s] %s", b.ToolName, b.ToolInput))
		}
	}
	return strings.Join(parts, "\n")
}

// TouchesFile reports whether any tool input or tool result in this message
// mentions the given path fragment, case-insensitively, against the raw
// serialized payload.
func (m *MessageRecord) TouchesFile(path string) bool {
	c := &m.Message.Content
	if c.Flat {
		return false
	}
	needle := strings.ToLower(path)
	for _, b := range c.Blocks {
		switch b.Kind {
		case BlockToolUse:
			if strings.Contains(strings.ToLower(string(b.ToolInput)), needle) {
				return true
			}
		case BlockToolResult:
			if b.ToolContent != nil &&
				strings.Contains(strings.ToLower(string(b.ToolContent)), needle) {
				return true
			}
		}
	}
	return false
}
