package services

import "strings"

// Pure scoring rules. Persistence and game state stay out of this file so
// the scoring policy can be pinned by tests on its own.

// NormalizeAnswer applies the single normalization used for correctness
// checks: trimmed of surrounding whitespace, lowercased.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsCorrectAnswer reports whether the submitted text matches any entry of
// the question's correct-answer set under NormalizeAnswer.
func IsCorrectAnswer(submitted string, correctAnswers []string) bool {
	want := NormalizeAnswer(submitted)
	for _, candidate := range correctAnswers {
		if NormalizeAnswer(candidate) == want {
			return true
		}
	}
	return false
}

// PointsForAnswer is 1 for a correct answer, 0 otherwise.
func PointsForAnswer(correct bool) int {
	if correct {
		return 1
	}
	return 0
}

// FinishBonus is the flat bonus for whichever player exhausts the question
// sequence first. Applied once, at game finish.
func FinishBonus() int {
	return 1
}
