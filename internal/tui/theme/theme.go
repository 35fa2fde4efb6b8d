package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Title       lipgloss.Style
	Section     lipgloss.Style
	UnreadCount lipgloss.Style
	ActiveLine  lipgloss.Style
	FocusLine   lipgloss.Style
	MetaLabel   lipgloss.Style
	MetaValue   lipgloss.Style
	StateIdle   lipgloss.Style
	StateWarn   lipgloss.Style
	StateLoad   lipgloss.Style
	Favorite    lipgloss.Style
	Blankslate  lipgloss.Style

	TitleUnread lipgloss.Style
	TitleRead   lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		Section:     lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		UnreadCount: lipgloss.NewStyle().Foreground(cpYellow).Bold(true),
		ActiveLine:  lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		FocusLine:   lipgloss.NewStyle().Background(cpSurface0).Foreground(cpGreen),
		MetaLabel:   lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:   lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:   lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:   lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:   lipgloss.NewStyle().Foreground(cpPeach),
		Favorite:    lipgloss.NewStyle().Foreground(cpYellow),
		Blankslate:  lipgloss.NewStyle().Foreground(cpOverlay1).Italic(true),
		TitleUnread: lipgloss.NewStyle().Bold(true).Foreground(cpText),
		TitleRead:   lipgloss.NewStyle().Foreground(cpSubtext0),
	}
}

func (t Theme) StyleArticleTitle(read bool, title string) string {
	if title == "" {
		return title
	}
	if read {
		return t.TitleRead.Render(title)
	}
	return t.TitleUnread.Render(title)
}

// RenderActiveLine highlights the cursor row.
func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}

// RenderFocusLine highlights the keyboard-navigation focus, the terminal
// stand-in for the original's green border.
func (t Theme) RenderFocusLine(focused bool, line string) string {
	if !focused {
		return line
	}
	return t.FocusLine.Render(line)
}
