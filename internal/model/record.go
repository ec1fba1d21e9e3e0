// Package model parses one line of a Claude Code conversation log into a
// tagged record. Every other package consumes logs through these types.
package model

import (
	"encoding/json"
	"errors"
)

// RecordKind discriminates the closed set of record variants. Only the
// three message kinds participate in search, filtering, and display.
type RecordKind int

const (
	KindOther RecordKind = iota
	KindUser
	KindAssistant
	KindSystem
)

// Record is one parsed log line: a message record for user/assistant/system
// lines, or an Other marker for everything else (file-history snapshots,
// progress events, unrecognized types).
type Record struct {
	Kind RecordKind
	Msg  *MessageRecord // nil unless Kind is a message kind
}

// MessageRecord carries the metadata and payload of a message line.
// Constructed once per parsed line, never mutated.
type MessageRecord struct {
	UUID       string `json:"uuid"`
	ParentUUID string `json:"-"`
	SessionID  string `json:"sessionId"`
	Timestamp  string `json:"timestamp"`
	Cwd        string `json:"cwd"`
	GitBranch  string `json:"gitBranch"`
	Version    string `json:"version"`
	Message    Message
}

// Message is a role plus content, where content is either a flat string or
// an ordered block sequence (never both).
type Message struct {
	Role    string
	Content MessageContent
}

// MessageContent holds exactly one of the two content forms. Flat reports
// which form was present in the source.
type MessageContent struct {
	Flat   bool
	Text   string
	Blocks []ContentBlock
}

// BlockKind discriminates content block variants.
type BlockKind int

const (
	BlockOther BlockKind = iota
	BlockText
	BlockThinking
	BlockToolUse
	BlockToolResult
)

// ContentBlock is one unit of a structured message body. Fields are valid
// only for the matching Kind; unrecognized block types become BlockOther
// and are skipped everywhere.
type ContentBlock struct {
	Kind BlockKind

	Text     string // BlockText
	Thinking string // BlockThinking

	ToolID    string          // BlockToolUse
	ToolName  string          // BlockToolUse
	ToolInput json.RawMessage // BlockToolUse

	ToolUseID   string          // BlockResult
	ToolContent json.RawMessage // BlockToolResult, nil when absent
}

var errNotMessage = errors.New("not a message record")

// recordEnvelope is the first-pass view of a line: just enough to dispatch
// on the top-level type.
type recordEnvelope struct {
	Type       string          `json:"type"`
	UUID       string          `json:"uuid"`
	ParentUUID json.RawMessage `json:"parentUuid"`
	SessionID  string          `json:"sessionId"`
	Timestamp  string          `json:"timestamp"`
	Cwd        string          `json:"cwd"`
	GitBranch  string          `json:"gitBranch"`
	Version    string          `json:"version"`
	Message    json.RawMessage `json:"message"`
}

type messageEnvelope struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type blockEnvelope struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	Thinking  string          `json:"thinking"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
	ToolUseID string          `json:"tool_use_id"`
	Content   json.RawMessage `json:"content"`
}

// Parse decodes one log line. The error is only a signal to skip the line;
// callers must never abort a scan because of it.
func Parse(line []byte) (Record, error) {
	var env recordEnvelope
	if err := json.Unmarshal(line, &env); err != nil {
		return Record{}, err
	}

	var kind RecordKind
	switch env.Type {
	case "user":
		kind = KindUser
	case "assistant":
		kind = KindAssistant
	case "system":
		kind = KindSystem
	default:
		// file-history-snapshot, progress, summary, anything new
		return Record{Kind: KindOther}, nil
	}

	if len(env.Message) == 0 {
		return Record{}, errNotMessage
	}

	var menv messageEnvelope
	if err := json.Unmarshal(env.Message, &menv); err != nil {
		return Record{}, err
	}

	content, err := parseContent(menv.Content)
	if err != nil {
		return Record{}, err
	}

	msg := &MessageRecord{
		UUID:       env.UUID,
		ParentUUID: rawToString(env.ParentUUID),
		SessionID:  env.SessionID,
		Timestamp:  env.Timestamp,
		Cwd:        env.Cwd,
		GitBranch:  env.GitBranch,
		Version:    env.Version,
		Message: Message{
			Role:    menv.Role,
			Content: content,
		},
	}
	return Record{Kind: kind, Msg: msg}, nil
}

func parseContent(raw json.RawMessage) (MessageContent, error) {
	if len(raw) == 0 {
		return MessageContent{}, errNotMessage
	}

	// flat string form
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return MessageContent{Flat: true, Text: s}, nil
	}

	// block array form
	var envs []blockEnvelope
	if err := json.Unmarshal(raw, &envs); err != nil {
		return MessageContent{}, err
	}

	blocks := make([]ContentBlock, 0, len(envs))
	for _, e := range envs {
		switch e.Type {
		case "text":
			blocks = append(blocks, ContentBlock{Kind: BlockText, Text: e.Text})
		case "thinking":
			blocks = append(blocks, ContentBlock{Kind: BlockThinking, Thinking: e.Thinking})
		case "tool_use":
			blocks = append(blocks, ContentBlock{
				Kind:      BlockToolUse,
				ToolID:    e.ID,
				ToolName:  e.Name,
				ToolInput: e.Input,
			})
		case "tool_result":
			blocks = append(blocks, ContentBlock{
				Kind:        BlockToolResult,
				ToolUseID:   e.ToolUseID,
				ToolContent: e.Content,
			})
		default:
			blocks = append(blocks, ContentBlock{Kind: BlockOther})
		}
	}
	return MessageContent{Blocks: blocks}, nil
}

// rawToString renders an arbitrary JSON value as a plain string: string
// values lose their quotes, everything else keeps its JSON text.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// IsMessage reports whether the record is a user/assistant/system message.
func (r Record) IsMessage() bool {
	return r.Kind == KindUser || r.Kind == KindAssistant || r.Kind == KindSystem
}

// AsMessageRecord returns the message payload, or nil for non-message records.
func (r Record) AsMessageRecord() *MessageRecord {
	if r.IsMessage() {
		return r.Msg
	}
	return nil
}

// RoleStr returns the stable lowercase role token for the record.
func (r Record) RoleStr() string {
	switch r.Kind {
	case KindUser:
		return "user"
	case KindAssistant:
		return "assistant"
	case KindSystem:
		return "system"
	default:
		return "other"
	}
}
