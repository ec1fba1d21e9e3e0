package display

import "github.com/charmbracelet/lipgloss"

var (
	colorUser      = lipgloss.Color("10")  // bright green
	colorAssistant = lipgloss.Color("12")  // bright blue
	colorSystem    = lipgloss.Color("11")  // bright yellow
	colorAccent    = lipgloss.Color("14")  // bright cyan
	colorDimmed    = lipgloss.Color("240") // gray
	colorMatch     = lipgloss.Color("9")   // bright red

	StyleUser      = lipgloss.NewStyle().Foreground(colorUser)
	StyleAssistant = lipgloss.NewStyle().Foreground(colorAssistant)
	StyleSystem    = lipgloss.NewStyle().Foreground(colorSystem)
	StyleAccent    = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDimmed)
	StyleBold      = lipgloss.NewStyle().Bold(true)
	StyleTitle     = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	StyleMatch     = lipgloss.NewStyle().Foreground(colorMatch).Bold(true)

	StyleUserBold      = StyleUser.Bold(true)
	StyleAssistantBold = StyleAssistant.Bold(true)
	StyleSystemBold    = StyleSystem.Bold(true)
)

// RoleStyle returns the style for a role token.
func RoleStyle(role string) lipgloss.Style {
	switch role {
	case "user":
		return StyleUser
	case "assistant":
		return StyleAssistant
	case "system":
		return StyleSystem
	default:
		return StyleDim
	}
}
