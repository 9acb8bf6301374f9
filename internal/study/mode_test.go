package study

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"gresa", ModeGRESA, false},
		{"concept", ModeConcept, false},
		{"GRESA", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q): unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModeLabels(t *testing.T) {
	if ModeGRESA.Label() != "GRESA Mode" {
		t.Errorf("unexpected label %q", ModeGRESA.Label())
	}
	if ModeConcept.Label() != "Concept Simplifier Mode" {
		t.Errorf("unexpected label %q", ModeConcept.Label())
	}
	if ModeGRESA.Placeholder() != "Problem" || ModeConcept.Placeholder() != "Concept" {
		t.Error("unexpected placeholders")
	}
}
