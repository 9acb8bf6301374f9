package validator

import (
	"strings"
	"testing"
)

func TestValidateProblem(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"whitespace only", "   \n\t ", false},
		{"too short", "What is 5?", false},
		{"fourteen chars with number", "What is 12345?", false},
		{"fifteen with number", "What's 5 + 77?!", true},
		{"fourteen chars", "What's 5 + 7?!", false},
		{"number and question", "A car travels 60 km in 2 hours. What is its speed?", true},
		{"decimal", "How long is a rope cut into 2.5 pieces?", true},
		{"unit without number", "How many cm are in one meter of string?", true},
		{"composite unit", "What does a speed given in m/s measure?", true},
		{"celsius unit", "Why does water boil at a given °C value?", true},
		{"no question mark", "A car travels 60 km in 2 hours at constant speed.", false},
		{"no number or unit", "Why is the sky blue during the day?", false},
		{"unit inside word ignored", "Why does the hammer swing so quickly?", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateProblem(tt.text); got != tt.want {
				t.Errorf("ValidateProblem(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestValidateProblem_LengthBoundary(t *testing.T) {
	// 15 characters after trimming: passes the length gate.
	text := "  Is 13 + 4 = 17?  "
	if len(strings.TrimSpace(text)) != MinProblemLength {
		t.Fatalf("fixture has %d chars, want %d", len(strings.TrimSpace(text)), MinProblemLength)
	}
	if !ValidateProblem(text) {
		t.Error("expected 15-character problem to pass")
	}
	short := "Is 3 + 4 = 7?"
	if ValidateProblem(short) {
		t.Error("expected 13-character problem to fail")
	}
}

func TestValidateConcept(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", false},
		{"    ", false},
		{"Photosynthesis", true},
		{"Newton's Second Law", true},
		{"one two three four five six seven eight nine ten", true},
		{"Please explain to me how the process of photosynthesis works in green plants", false},
	}

	for _, tt := range tests {
		if got := ValidateConcept(tt.text); got != tt.want {
			t.Errorf("ValidateConcept(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestCheckProblem_Messages(t *testing.T) {
	verr := CheckProblem("")
	if verr == nil {
		t.Fatal("expected error for empty text")
	}
	if verr.Check != "problem" {
		t.Errorf("check = %q, want %q", verr.Check, "problem")
	}
	if !strings.Contains(verr.Error(), `check "problem"`) {
		t.Errorf("unexpected error string %q", verr.Error())
	}

	verr = CheckProblem("A train leaves the station at 5 pm sharp.")
	if verr == nil || !strings.Contains(verr.Message, "question mark") {
		t.Errorf("expected question mark message, got %v", verr)
	}
}

func TestCheckConcept_TooLong(t *testing.T) {
	verr := CheckConcept(strings.Repeat("word ", 11))
	if verr == nil {
		t.Fatal("expected error for 11 words")
	}
	if verr.Check != "concept" {
		t.Errorf("check = %q, want %q", verr.Check, "concept")
	}
}
