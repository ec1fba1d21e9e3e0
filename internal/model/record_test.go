package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userLine = `{"type":"user","uuid":"u-1","sessionId":"sess-1","timestamp":"2024-06-01T00:00:01Z","cwd":"/home/t/app","gitBranch":"main","version":"1.0.2","message":{"role":"user","content":"deploy the authentication service"}}`

const assistantLine = `{"type":"assistant","uuid":"a-1","sessionId":"sess-1","timestamp":"2024-06-01T00:00:05Z","message":{"role":"assistant","content":[{"type":"thinking","thinking":"user wants a deploy"},{"type":"text","text":"Running the deploy now."},{"type":"tool_use","id":"t1","name":"Bash","input":{"command":"make deploy"}},{"type":"tool_result","tool_use_id":"t1","content":"ok"}]}}`

func TestParseFlatUserMessage(t *testing.T) {
	rec, err := Parse([]byte(userLine))
	require.NoError(t, err)

	assert.Equal(t, KindUser, rec.Kind)
	assert.True(t, rec.IsMessage())
	assert.Equal(t, "user", rec.RoleStr())

	msg := rec.AsMessageRecord()
	require.NotNil(t, msg)
	assert.Equal(t, "sess-1", msg.SessionID)
	assert.Equal(t, "main", msg.GitBranch)
	assert.True(t, msg.Message.Content.Flat)
	assert.Equal(t, "deploy the authentication service", msg.TextContent())
	assert.Empty(t, msg.ToolCalls())
}

func TestParseBlockMessage(t *testing.T) {
	rec, err := Parse([]byte(assistantLine))
	require.NoError(t, err)
	require.Equal(t, KindAssistant, rec.Kind)

	msg := rec.AsMessageRecord()
	require.NotNil(t, msg)
	require.Len(t, msg.Message.Content.Blocks, 4)

	// block order is preserved
	kinds := make([]BlockKind, 0, 4)
	for _, b := range msg.Message.Content.Blocks {
		kinds = append(kinds, b.Kind)
	}
	assert.Equal(t, []BlockKind{BlockThinking, BlockText, BlockToolUse, BlockToolResult}, kinds)

	assert.Equal(t, []string{"Bash"}, msg.ToolCalls())
	assert.Equal(t, "user wants a deploy", msg.ThinkingContent())

	text := msg.TextContent()
	assert.Contains(t, text, "user wants a deploy")
	assert.Contains(t, text, "Running the deploy now.")
	assert.Contains(t, text, `[tool: Bash] {"command":"make deploy"}`)
	assert.Contains(t, text, `[result] "ok"`)

	noThink := msg.TextContentNoThinking()
	assert.NotContains(t, noThink, "user wants a deploy")
	assert.Contains(t, noThink, "Running the deploy now.")
}

func TestParseNonMessageRecords(t *testing.T) {
	for _, line := range []string{
		`{"type":"file-history-snapshot","snapshot":{"files":[]}}`,
		`{"type":"progress","data":{"pct":50}}`,
		`{"type":"summary","summary":"a chat"}`,
		`{"type":"something-new-entirely"}`,
	} {
		rec, err := Parse([]byte(line))
		require.NoError(t, err, line)
		assert.Equal(t, KindOther, rec.Kind, line)
		assert.False(t, rec.IsMessage(), line)
		assert.Nil(t, rec.AsMessageRecord(), line)
		assert.Equal(t, "other", rec.RoleStr(), line)
	}
}

func TestParseRejectsMalformedLines(t *testing.T) {
	for _, line := range []string{
		`not json at all`,
		`{"type":"user"}`,
		`{"type":"user","message":{"role":"user"}}`,
		`{"type":"assistant","message":{"role":"assistant","content":{"weird":true}}}`,
	} {
		_, err := Parse([]byte(line))
		assert.Error(t, err, line)
	}
}

func TestUnknownBlockTypesAreSkippable(t *testing.T) {
	line := `{"type":"assistant","message":{"role":"assistant","content":[{"type":"image","source":"x"},{"type":"text","text":"hi"}]}}`
	rec, err := Parse([]byte(line))
	require.NoError(t, err)

	msg := rec.AsMessageRecord()
	require.Len(t, msg.Message.Content.Blocks, 2)
	assert.Equal(t, BlockOther, msg.Message.Content.Blocks[0].Kind)
	assert.Equal(t, "hi", msg.TextContent())
}

func TestToolInputContent(t *testing.T) {
	rec, err := Parse([]byte(assistantLine))
	require.NoError(t, err)
	assert.Equal(t, `[Bash] {"command":"make deploy"}`, rec.Msg.ToolInputContent())
}

func TestTouchesFile(t *testing.T) {
	line := `{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"Read","input":{"file_path":"/src/Auth/Login.go"}}]}}`
	rec, err := Parse([]byte(line))
	require.NoError(t, err)

	assert.True(t, rec.Msg.TouchesFile("auth/login"))
	assert.False(t, rec.Msg.TouchesFile("billing"))

	flat, err := Parse([]byte(userLine))
	require.NoError(t, err)
	assert.False(t, flat.Msg.TouchesFile("auth"))
}

func TestToolResultWithoutContent(t *testing.T) {
	line := `{"type":"user","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1"}]}}`
	rec, err := Parse([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, "", rec.Msg.TextContent())
}
