package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/grecsai/grecs/internal/ui/theme"
)

func testPanels() Panels {
	return Panels{Items: []Panel{
		{Title: "Given", Body: "d = 60 km", Accent: theme.SectionBlue},
		{Title: "Answer", Body: "40 km/h", Accent: theme.SectionGreen},
	}}
}

func TestPanelsToggle(t *testing.T) {
	p := testPanels()
	p.Toggle()
	if !p.Items[0].Expanded {
		t.Fatal("expected first panel expanded")
	}
	p.Toggle()
	if p.Items[0].Expanded {
		t.Fatal("expected first panel collapsed again")
	}
}

func TestPanelsNavigation(t *testing.T) {
	p := testPanels()
	p.Prev()
	if p.Selected != 0 {
		t.Errorf("Prev at top moved to %d", p.Selected)
	}
	p.Next()
	p.Next()
	if p.Selected != 1 {
		t.Errorf("Next at bottom moved to %d", p.Selected)
	}
}

func TestPanelsExpandAll(t *testing.T) {
	p := testPanels()
	p.ExpandAll()
	for i, item := range p.Items {
		if !item.Expanded {
			t.Errorf("panel %d not expanded", i)
		}
	}
}

func TestPanelViewHidesCollapsedBody(t *testing.T) {
	p := testPanels()
	// The selected title is underlined one rune at a time.
	view := ansi.Strip(p.View(60))
	if !strings.Contains(view, "▸ Given") || !strings.Contains(view, "Answer") {
		t.Fatalf("titles missing from view:\n%s", view)
	}
	if strings.Contains(view, "40 km/h") {
		t.Error("collapsed body should not render")
	}

	p.ExpandAll()
	if !strings.Contains(ansi.Strip(p.View(60)), "40 km/h") {
		t.Error("expanded body should render")
	}
}
