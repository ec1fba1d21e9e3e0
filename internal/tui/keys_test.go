package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestKeyBindingsStayWired(t *testing.T) {
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyUp}, keys.Up))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlK}, keys.Up))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyDown}, keys.Down))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlJ}, keys.Down))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEnter}, keys.Enter))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEsc}, keys.Quit))

	// preview pane scrolling: half page on C-u/C-d, full page on pgup/pgdn
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlU}, keys.PreviewUp))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlD}, keys.PreviewDn))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyPgUp}, keys.PageUp))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyPgDown}, keys.PageDown))
}
