package relay

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToField(t *testing.T) {
	text := "Some preamble\n**To: claude727**\nMessageID: msg-42\nbody"
	assert.Equal(t, "claude727", ExtractToField(text))
	assert.Equal(t, "msg-42", ExtractMessageID(text))
}

func TestExtractToFieldMissing(t *testing.T) {
	assert.Equal(t, "", ExtractToField("no addressing here"))
	assert.Equal(t, "", ExtractMessageID("To: someone\nbut no id"))
	// empty value after the prefix does not count
	assert.Equal(t, "", ExtractToField("To:   "))
}

func TestExtractStripsBoldMarkers(t *testing.T) {
	assert.Equal(t, "peer", ExtractToField("  **To:** peer  "))
	assert.Equal(t, "abc", ExtractMessageID("*MessageID:* abc"))
}

func TestRegistryRoundTrip(t *testing.T) {
	r := &Relay{StateDir: t.TempDir()}

	reg := r.LoadRegistry()
	assert.Empty(t, reg.Instances)

	reg.Instances["claude727"] = InstanceInfo{
		Pane:         "%3",
		RegisteredAt: "2024-06-01T10:00:00Z",
		SeenIDs:      []string{"msg-1", "msg-2"},
	}
	require.NoError(t, r.SaveRegistry(reg))

	loaded := r.LoadRegistry()
	require.Contains(t, loaded.Instances, "claude727")
	assert.Equal(t, "%3", loaded.Instances["claude727"].Pane)
	assert.Equal(t, []string{"msg-1", "msg-2"}, loaded.Instances["claude727"].SeenIDs)
}

func TestUnregisterUnknownName(t *testing.T) {
	r := &Relay{StateDir: t.TempDir()}

	var buf bytes.Buffer
	require.NoError(t, r.Unregister(&buf, "ghost"))
	assert.Contains(t, buf.String(), "not found")
}

func TestStatusEmptyRegistry(t *testing.T) {
	r := &Relay{StateDir: t.TempDir()}

	var buf bytes.Buffer
	require.NoError(t, r.Status(&buf))
	assert.Contains(t, buf.String(), "No instances registered")
}

func TestStatusListsInstances(t *testing.T) {
	r := &Relay{StateDir: t.TempDir()}
	require.NoError(t, r.SaveRegistry(Registry{Instances: map[string]InstanceInfo{
		"alpha": {Pane: "%1", RegisteredAt: "2024-06-01T10:00:00Z", LastMessageID: "msg-9"},
	}}))

	var buf bytes.Buffer
	require.NoError(t, r.Status(&buf))
	out := buf.String()
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "%1")
	assert.Contains(t, out, "msg-9")
}
