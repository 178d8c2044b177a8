package services

import "testing"

func TestIsCorrectAnswer(t *testing.T) {
	tests := []struct {
		name           string
		submitted      string
		correctAnswers []string
		want           bool
	}{
		{"exact match", "4", []string{"4", "four"}, true},
		{"alternate entry", "four", []string{"4", "four"}, true},
		{"surrounding whitespace trimmed", "  4  ", []string{"4"}, true},
		{"case insensitive", "PARIS", []string{"Paris"}, true},
		{"correct entry itself unnormalized", "jupiter", []string{"  Jupiter "}, true},
		{"wrong answer", "5", []string{"4", "four"}, false},
		{"empty submission", "", []string{"4"}, false},
		{"no correct answers", "4", nil, false},
		{"inner whitespace preserved", "newyork", []string{"new york"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCorrectAnswer(tt.submitted, tt.correctAnswers); got != tt.want {
				t.Fatalf("IsCorrectAnswer(%q, %v) = %v, want %v", tt.submitted, tt.correctAnswers, got, tt.want)
			}
		})
	}
}

func TestPointsForAnswer(t *testing.T) {
	if got := PointsForAnswer(true); got != 1 {
		t.Fatalf("PointsForAnswer(true) = %d, want 1", got)
	}
	if got := PointsForAnswer(false); got != 0 {
		t.Fatalf("PointsForAnswer(false) = %d, want 0", got)
	}
}

func TestFinishBonus(t *testing.T) {
	if got := FinishBonus(); got != 1 {
		t.Fatalf("FinishBonus() = %d, want 1", got)
	}
}
