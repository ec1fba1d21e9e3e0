package session

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/smc/internal/scan"
)

func writeFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func testSession(t *testing.T) scan.SessionFile {
	t.Helper()
	path := writeFile(t, t.TempDir(), "abc123.jsonl",
		`{"type":"user","sessionId":"abc123","timestamp":"2024-06-01T10:00:00Z","message":{"role":"user","content":"please fix the login flow"}}`,
		``,
		`not json at all`,
		`{"type":"assistant","sessionId":"abc123","timestamp":"2024-06-01T10:00:05Z","message":{"role":"assistant","content":[{"type":"thinking","thinking":"user wants the login fixed"},{"type":"text","text":"On it."},{"type":"tool_use","name":"Bash","input":{"command":"go test ./..."}},{"type":"tool_result","content":"ok"}]}}`,
		`{"type":"progress","data":{"step":1}}`,
		`{"type":"user","sessionId":"abc123","timestamp":"2024-06-01T10:01:00Z","message":{"role":"user","content":"thanks"}}`,
	)
	return scan.SessionFile{
		Path:        path,
		SessionID:   "abc123",
		ProjectName: "demo",
		SizeBytes:   1,
	}
}

func TestParseRecordsSkipsBlankAndMalformed(t *testing.T) {
	file := testSession(t)
	records, err := ParseRecords(file.Path)
	require.NoError(t, err)
	// 3 messages + 1 progress record survive; blank and garbage lines don't
	assert.Len(t, records, 4)
}

func TestParseNumberedKeepsLineNumbers(t *testing.T) {
	file := testSession(t)
	records, err := ParseNumbered(file.Path)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, 1, records[0].LineNum)
	assert.Equal(t, 4, records[1].LineNum) // blank + garbage lines still count
	assert.Equal(t, 6, records[3].LineNum)
}

func TestListProbesPreviewAndSortsNewestFirst(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "-Users-dev-GitHub-alpha"), "older.jsonl",
		`{"type":"user","sessionId":"older","timestamp":"2024-05-01T10:00:00Z","message":{"role":"user","content":"old question"}}`)
	writeFile(t, filepath.Join(root, "-Users-dev-GitHub-alpha"), "newer.jsonl",
		`{"type":"user","sessionId":"newer","timestamp":"2024-06-01T10:00:00Z","message":{"role":"user","content":"`+strings.Repeat("x", 150)+`"}}`)

	files, err := scan.Discover(root, "GitHub")
	require.NoError(t, err)

	entries := List(files, "", "")
	require.Len(t, entries, 2)
	assert.Equal(t, "newer", entries[0].File.SessionID)
	assert.Len(t, []rune(entries[0].Preview), 100)
	assert.Equal(t, "old question", entries[1].Preview)
}

func TestListDateBounds(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "-Users-dev-GitHub-alpha"), "may.jsonl",
		`{"type":"user","sessionId":"may","timestamp":"2024-05-01T10:00:00Z","message":{"role":"user","content":"hi"}}`)
	writeFile(t, filepath.Join(root, "-Users-dev-GitHub-alpha"), "june.jsonl",
		`{"type":"user","sessionId":"june","timestamp":"2024-06-01T10:00:00Z","message":{"role":"user","content":"hi"}}`)

	files, err := scan.Discover(root, "GitHub")
	require.NoError(t, err)

	after := List(files, "2024-05-15", "")
	require.Len(t, after, 1)
	assert.Equal(t, "june", after[0].File.SessionID)

	before := List(files, "", "2024-05-15")
	require.Len(t, before, 1)
	assert.Equal(t, "may", before[0].File.SessionID)
}

func TestShowSkipsThinkingByDefault(t *testing.T) {
	file := testSession(t)

	var buf bytes.Buffer
	require.NoError(t, Show(&buf, file, ShowOptions{To: -1}))
	out := buf.String()
	assert.NotContains(t, out, "user wants the login fixed")
	assert.Contains(t, out, "On it.")
	assert.Contains(t, out, "3 messages displayed")

	buf.Reset()
	require.NoError(t, Show(&buf, file, ShowOptions{Thinking: true, To: -1}))
	assert.Contains(t, buf.String(), "user wants the login fixed")
}

func TestShowFromToBoundsIndices(t *testing.T) {
	file := testSession(t)

	var buf bytes.Buffer
	require.NoError(t, Show(&buf, file, ShowOptions{From: 2, To: -1}))
	out := buf.String()
	assert.NotContains(t, out, "login flow")
	assert.Contains(t, out, "thanks")
	assert.Contains(t, out, "1 messages displayed")
}

func TestToolsListsToolCallingMessages(t *testing.T) {
	file := testSession(t)

	var buf bytes.Buffer
	require.NoError(t, Tools(&buf, file))
	out := buf.String()
	assert.Contains(t, out, "Bash")
	assert.Contains(t, out, "1 tool-calling messages")
}

func TestExportPreservesBlockOrder(t *testing.T) {
	file := testSession(t)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, file))
	out := buf.String()

	assert.Contains(t, out, "# Session abc123")
	thinking := strings.Index(out, "**Thinking:**")
	text := strings.Index(out, "On it.")
	tool := strings.Index(out, "**Tool: Bash**")
	result := strings.Index(out, "**Result:**")
	require.True(t, thinking >= 0 && text >= 0 && tool >= 0 && result >= 0)
	assert.Less(t, thinking, text)
	assert.Less(t, text, tool)
	assert.Less(t, tool, result)
}

func TestExportToFileDefaultsToSessionID(t *testing.T) {
	file := testSession(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "export.md")

	path, err := ExportToFile(file, out)
	require.NoError(t, err)
	assert.Equal(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "please fix the login flow")
}

func TestContextCentersOnNearestMessage(t *testing.T) {
	file := testSession(t)

	var buf bytes.Buffer
	require.NoError(t, Context(&buf, file, 4, 1))
	out := buf.String()
	assert.Contains(t, out, "around line 4")
	assert.Contains(t, out, "login flow") // one before
	assert.Contains(t, out, "thanks")     // one after
}

func TestRecentNewestFirstWithRoleFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "-Users-dev-GitHub-alpha"), "s1.jsonl",
		`{"type":"user","sessionId":"s1","timestamp":"2024-06-01T10:00:00Z","message":{"role":"user","content":"first"}}`,
		`{"type":"assistant","sessionId":"s1","timestamp":"2024-06-01T10:00:05Z","message":{"role":"assistant","content":"reply"}}`)
	writeFile(t, filepath.Join(root, "-Users-dev-GitHub-beta"), "s2.jsonl",
		`{"type":"user","sessionId":"s2","timestamp":"2024-06-02T09:00:00Z","message":{"role":"user","content":"newest"}}`)

	files, err := scan.Discover(root, "GitHub")
	require.NoError(t, err)

	entries := Recent(files, 2, "")
	require.Len(t, entries, 2)
	assert.Equal(t, "s2", entries[0].SessionID)

	users := Recent(files, 10, "user")
	require.Len(t, users, 2)
	for _, e := range users {
		assert.Equal(t, "user", e.Record.RoleStr())
	}
}
