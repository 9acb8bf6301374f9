package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/grecsai/grecs/internal/ui/theme"
)

// Panel is a collapsible titled block of text.
type Panel struct {
	Title    string
	Body     string
	Accent   color.Color
	Expanded bool
}

// Panels is an ordered list of panels with one cursor.
type Panels struct {
	Items    []Panel
	Selected int
}

// Toggle flips the selected panel.
func (p *Panels) Toggle() {
	if p.Selected >= 0 && p.Selected < len(p.Items) {
		p.Items[p.Selected].Expanded = !p.Items[p.Selected].Expanded
	}
}

// ExpandAll opens every panel.
func (p *Panels) ExpandAll() {
	for i := range p.Items {
		p.Items[i].Expanded = true
	}
}

// Next moves the cursor down.
func (p *Panels) Next() {
	if p.Selected < len(p.Items)-1 {
		p.Selected++
	}
}

// Prev moves the cursor up.
func (p *Panels) Prev() {
	if p.Selected > 0 {
		p.Selected--
	}
}

// View renders all panels at width.
func (p Panels) View(width int) string {
	out := ""
	for i, item := range p.Items {
		out += item.View(width, i == p.Selected) + "\n"
	}
	return out
}

// View renders the panel. A collapsed panel shows only its title.
func (p Panel) View(width int, selected bool) string {
	marker := "▸ "
	if p.Expanded {
		marker = "▾ "
	}
	titleStyle := lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	if selected {
		titleStyle = titleStyle.Underline(true)
	}
	content := titleStyle.Render(marker + p.Title)
	if p.Expanded {
		content += "\n" + lipgloss.NewStyle().Foreground(theme.Text).Render(p.Body)
	}

	border := theme.Border
	if selected {
		border = p.Accent
	}
	w := width - 2
	if w < 10 {
		w = 10
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(w).
		Padding(0, 1).
		Render(content)
}
