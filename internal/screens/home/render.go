package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/grecsai/grecs/internal/ui/theme"
)

const titleFull = ` ██████╗ ██████╗ ███████╗ ██████╗███████╗
██╔════╝ ██╔══██╗██╔════╝██╔════╝██╔════╝
██║  ███╗██████╔╝█████╗  ██║     ███████╗
██║   ██║██╔══██╗██╔══╝  ██║     ╚════██║
╚██████╔╝██║  ██║███████╗╚██████╗███████║
 ╚═════╝ ╚═╝  ╚═╝╚══════╝ ╚═════╝╚══════╝`

const titleCompact = "G · R · E · C · S"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	art := titleFull
	if compact {
		art = titleCompact
	}
	title := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(style.Render(art))
	sub := theme.Subtitle.Width(cw).Render("GRESA solver · Concept simplifier")
	return title + "\n" + sub
}

func renderStatsBar(requests, cw int) string {
	text := "No requests yet"
	if requests > 0 {
		text = fmt.Sprintf("%d request(s) this session", requests)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Foreground(theme.Secondary).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(text)
}

const buttonWidth = 26

func renderMenu(items []string, selected int, cw int) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	buttons := make([]string, len(items))
	for i, label := range items {
		if i == selected {
			buttons[i] = selectedBtn.Render("▸ " + label)
		} else {
			buttons[i] = normalBtn.Render(label)
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

func renderNotice(notice string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + notice)
}

func renderHint(hint string, cw int) string {
	return theme.Hint.Width(cw).Render(hint)
}

func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
