package search

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/smc/internal/scan"
)

func writeCorpusFile(t *testing.T, root, project, session string, lines ...string) {
	t.Helper()
	dir := filepath.Join(root, project)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, session+".jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func userMsg(text, ts string) string {
	return fmt.Sprintf(`{"type":"user","sessionId":"s","timestamp":%q,"message":{"role":"user","content":%q}}`, ts, text)
}

func userMsgBranch(text, ts, branch string) string {
	return fmt.Sprintf(`{"type":"user","timestamp":%q,"gitBranch":%q,"message":{"role":"user","content":%q}}`, ts, branch, text)
}

// testCorpus builds the three-file scenario: a user message about
// authentication, an assistant message calling Bash, and a progress record.
func testCorpus(t *testing.T) []scan.SessionFile {
	t.Helper()
	root := t.TempDir()
	writeCorpusFile(t, root, "-Users-t-GitHub-alpha", "sess-a",
		userMsg("deploy the authentication service", "2024-06-02T09:00:00Z"))
	writeCorpusFile(t, root, "-Users-t-GitHub-beta", "sess-b",
		`{"type":"assistant","timestamp":"2024-06-03T09:00:00Z","message":{"role":"assistant","content":[{"type":"text","text":"running it"},{"type":"tool_use","id":"t1","name":"Bash","input":{"command":"ls"}}]}}`)
	writeCorpusFile(t, root, "-Users-t-GitHub-gamma", "sess-c",
		`{"type":"progress","data":{"pct":10}}`)

	files, err := scan.Discover(root, "GitHub")
	require.NoError(t, err)
	require.Len(t, files, 3)
	return files
}

func TestSearchScenario(t *testing.T) {
	files := testCorpus(t)

	hits, err := Run(files, Options{Queries: []string{"authentication"}})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "user", hits[0].Record.RoleStr())
	assert.Equal(t, "alpha", hits[0].Project)
	assert.Equal(t, 1, hits[0].LineNum)
	assert.Equal(t, "authentication", hits[0].MatchedQuery)
}

func TestToolFilter(t *testing.T) {
	files := testCorpus(t)

	// empty-string query matches everything; the tool filter narrows it
	hits, err := Run(files, Options{Queries: []string{""}, Tool: "bash"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "assistant", hits[0].Record.RoleStr())
	assert.Equal(t, "beta", hits[0].Project)
}

func TestRoleFilter(t *testing.T) {
	files := testCorpus(t)

	hits, err := Run(files, Options{Queries: []string{""}, Role: "assistant"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "beta", hits[0].Project)
}

func TestDateFilters(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "-Users-t-GitHub-p", "sess-1",
		userMsg("boundary before", "2024-05-31T10:00:00Z"),
		userMsg("boundary after", "2024-06-01T00:00:01Z"))
	files, err := scan.Discover(root, "GitHub")
	require.NoError(t, err)

	hits, err := Run(files, Options{Queries: []string{"boundary"}, After: "2024-06-01"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 2, hits[0].LineNum)

	hits, err = Run(files, Options{Queries: []string{"boundary"}, Before: "2024-06-01"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].LineNum)
}

func TestBranchFilter(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "-Users-t-GitHub-p", "sess-1",
		userMsgBranch("on a feature branch", "2024-06-01T00:00:00Z", "feature/login"),
		userMsg("no branch recorded", "2024-06-01T00:00:00Z"))
	files, err := scan.Discover(root, "GitHub")
	require.NoError(t, err)

	hits, err := Run(files, Options{Queries: []string{""}, Branch: "LOGIN"})
	require.NoError(t, err)
	// a message with no branch value fails a present branch filter
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].LineNum)
}

func TestSelfOutputExclusion(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "-Users-t-GitHub-p", "sess-1",
		userMsg("regular mention of authentication", "2024-06-01T00:00:00Z"),
		userMsg(TagOpen+" authentication results from a prior run "+TagClose, "2024-06-01T00:00:01Z"))
	files, err := scan.Discover(root, "GitHub")
	require.NoError(t, err)

	hits, err := Run(files, Options{Queries: []string{"authentication"}})
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = Run(files, Options{Queries: []string{"authentication"}, IncludeSelf: true})
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestProjectAndSessionExclusionFilters(t *testing.T) {
	files := testCorpus(t)

	hits, err := Run(files, Options{Queries: []string{""}, Project: "ALPHA"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "alpha", hits[0].Project)

	hits, err = Run(files, Options{Queries: []string{""}, ExcludeSession: "sess-a"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "beta", hits[0].Project)
}

func TestHitBudget(t *testing.T) {
	root := t.TempDir()
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, userMsg(fmt.Sprintf("needle number %d", i), "2024-06-01T00:00:00Z"))
	}
	writeCorpusFile(t, root, "-Users-t-GitHub-p", "sess-1", lines...)
	files, err := scan.Discover(root, "GitHub")
	require.NoError(t, err)

	// single file: the budget is a hard bound
	hits, err := Run(files, Options{Queries: []string{"needle"}, MaxResults: 5})
	require.NoError(t, err)
	assert.Len(t, hits, 5)

	// hits keep line order within the file
	for i := 1; i < len(hits); i++ {
		assert.Greater(t, hits[i].LineNum, hits[i-1].LineNum)
	}

	// zero budget means unbounded
	hits, err = Run(files, Options{Queries: []string{"needle"}})
	require.NoError(t, err)
	assert.Len(t, hits, 20)
}

func TestHitBudgetConcurrentOvershootIsBounded(t *testing.T) {
	root := t.TempDir()
	const nFiles = 8
	for f := 0; f < nFiles; f++ {
		var lines []string
		for i := 0; i < 50; i++ {
			lines = append(lines, userMsg("needle in every line", "2024-06-01T00:00:00Z"))
		}
		writeCorpusFile(t, root, "-Users-t-GitHub-p", fmt.Sprintf("sess-%d", f), lines...)
	}
	files, err := scan.Discover(root, "GitHub")
	require.NoError(t, err)

	const budget = 10
	hits, err := Run(files, Options{Queries: []string{"needle"}, MaxResults: budget})
	require.NoError(t, err)
	// each in-flight worker can admit at most one hit past the threshold
	assert.GreaterOrEqual(t, len(hits), budget)
	assert.LessOrEqual(t, len(hits), budget+nFiles)
}

func TestCountTotalsMatchEnumeration(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "-Users-t-GitHub-alpha", "sess-1",
		userMsg("needle one", "2024-06-01T00:00:00Z"),
		userMsg("needle two", "2024-06-01T00:00:01Z"))
	writeCorpusFile(t, root, "-Users-t-GitHub-beta", "sess-2",
		userMsg("needle three", "2024-06-01T00:00:02Z"))
	files, err := scan.Discover(root, "GitHub")
	require.NoError(t, err)

	opts := Options{Queries: []string{"needle"}}
	hits, err := Run(files, opts)
	require.NoError(t, err)

	counts, total := CountByProject(hits)
	assert.Equal(t, len(hits), total)
	require.Len(t, counts, 2)
	assert.Equal(t, KeyCount{Key: "alpha", Count: 2}, counts[0])
	assert.Equal(t, KeyCount{Key: "beta", Count: 1}, counts[1])
}

func TestRunRejectsBadInput(t *testing.T) {
	files := testCorpus(t)

	_, err := Run(files, Options{})
	assert.Error(t, err)

	_, err = Run(files, Options{Queries: []string{"[bad"}, Regex: true})
	assert.Error(t, err)
}

func TestUnreadableFileYieldsZeroHits(t *testing.T) {
	files := testCorpus(t)
	files = append(files, scan.SessionFile{
		Path:        filepath.Join(t.TempDir(), "gone.jsonl"),
		SessionID:   "gone",
		ProjectName: "ghost",
	})

	hits, err := Run(files, Options{Queries: []string{"authentication"}})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestMarshalJSONLine(t *testing.T) {
	files := testCorpus(t)
	hits, err := Run(files, Options{Queries: []string{"authentication"}})
	require.NoError(t, err)
	require.Len(t, hits, 1)

	raw, err := hits[0].MarshalJSONLine()
	require.NoError(t, err)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(raw, &obj))
	assert.Equal(t, "alpha", obj["project"])
	assert.Equal(t, "sess-a", obj["session_id"])
	assert.Equal(t, float64(1), obj["line"])
	assert.Equal(t, "user", obj["role"])
	assert.Equal(t, "2024-06-02T09:00:00Z", obj["timestamp"])
	assert.Equal(t, "authentication", obj["matched_query"])
	assert.Equal(t, "deploy the authentication service", obj["text"])
}

func TestMarshalJSONLineUnknownTimestamp(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "-Users-t-GitHub-p", "sess-1",
		`{"type":"user","message":{"role":"user","content":"needle without timestamp"}}`)
	files, err := scan.Discover(root, "GitHub")
	require.NoError(t, err)

	hits, err := Run(files, Options{Queries: []string{"needle"}})
	require.NoError(t, err)
	require.Len(t, hits, 1)

	raw, err := hits[0].MarshalJSONLine()
	require.NoError(t, err)
	var obj map[string]any
	require.NoError(t, json.Unmarshal(raw, &obj))
	assert.Equal(t, "unknown", obj["timestamp"])
}
