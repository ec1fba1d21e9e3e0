package search

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/smc/internal/model"
)

func hitFromLine(t *testing.T, project, session string, lineNum int, line string) Hit {
	t.Helper()
	rec, err := model.Parse([]byte(line))
	require.NoError(t, err)
	return Hit{Project: project, SessionID: session, Record: rec, LineNum: lineNum, MatchedQuery: "q"}
}

func TestSummarize(t *testing.T) {
	hits := []Hit{
		hitFromLine(t, "alpha", "s1", 1,
			`{"type":"user","timestamp":"2024-05-01T08:00:00Z","message":{"role":"user","content":"kubernetes rollout keeps failing on startup"}}`),
		hitFromLine(t, "alpha", "s1", 2,
			`{"type":"assistant","timestamp":"2024-05-03T09:00:00Z","message":{"role":"assistant","content":"kubernetes rollout needs a readiness probe"}}`),
		hitFromLine(t, "beta", "s2", 1,
			`{"type":"user","timestamp":"2024-04-20T10:00:00Z","message":{"role":"user","content":"rollout stuck again"}}`),
	}

	s := Summarize(hits, []string{"rollout"})

	assert.Equal(t, 3, s.Total)
	require.Len(t, s.Projects, 2)
	assert.Equal(t, KeyCount{Key: "alpha", Count: 2}, s.Projects[0])
	assert.Equal(t, KeyCount{Key: "beta", Count: 1}, s.Projects[1])

	require.Len(t, s.Roles, 2)
	assert.Equal(t, KeyCount{Key: "user", Count: 2}, s.Roles[0])

	assert.Equal(t, 2, s.Sessions)
	assert.Equal(t, "2024-04-20", s.Earliest)
	assert.Equal(t, "2024-05-03", s.Latest)

	// "kubernetes" appears twice and is a valid topic; "rollout" contains
	// the query term and must be excluded; short and stop words too
	assert.Contains(t, s.Topics, "kubernetes")
	assert.NotContains(t, s.Topics, "rollout")
	assert.NotContains(t, s.Topics, "on")
	assert.NotContains(t, s.Topics, "need")
}

func TestFormatHitMarkdownTruncatesByCharacters(t *testing.T) {
	long := strings.Repeat("é", 600) // multi-byte rune, counted as chars
	h := hitFromLine(t, "alpha", "sess-1", 7,
		`{"type":"user","timestamp":"2024-06-01T10:20:30.123Z","message":{"role":"user","content":"`+long+`"}}`)

	md := FormatHitMarkdown(h)
	assert.Contains(t, md, "### alpha — user (2024-06-01T10:20:30)")
	assert.Contains(t, md, "Session: `sess-1` Line: 7")
	assert.Contains(t, md, strings.Repeat("é", 500)+"...")
	assert.NotContains(t, md, strings.Repeat("é", 501))
}

func TestWriteMarkdownDocument(t *testing.T) {
	opts := Options{
		Queries: []string{"auth", "deploy"},
		Role:    "user",
		After:   "2024-01-01",
	}
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, opts, []string{"### section one\n", "### section two\n"}, 2))

	out := buf.String()
	assert.Contains(t, out, "# smc Search Results")
	assert.Contains(t, out, "**Query:** `auth, deploy`")
	assert.Contains(t, out, "**Filters:** role=user, after=2024-01-01")
	assert.Contains(t, out, "**Results:** 2")
	assert.Equal(t, 3, strings.Count(out, "---\n"))
	assert.Contains(t, out, "### section one")
}
