package enrich

import (
	"math"
	"strings"
)

var gradeScores = map[string]int{
	"A": 40,
	"B": 30,
	"C": 20,
	"D": 10,
	"E": 0,
}

var grades = [...]string{"A", "B", "C", "D", "E"}

// ComputeScore maps a nutrition grade letter to its personalized score.
// Unknown or empty grades score 0.
func ComputeScore(grade string) int {
	return gradeScores[strings.ToUpper(grade)]
}

// ScoreForGrade is ComputeScore for callers that must tell an unknown grade
// apart from E.
func ScoreForGrade(grade string) (int, bool) {
	score, ok := gradeScores[strings.ToUpper(strings.TrimSpace(grade))]
	return score, ok
}

// GradeForScore maps an (average) score back to the nearest grade letter.
func GradeForScore(score float64) string {
	idx := int(math.Floor((40-score)/10 + 0.5))
	return grades[max(0, min(len(grades)-1, idx))]
}
