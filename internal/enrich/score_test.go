package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeScore(t *testing.T) {
	tests := map[string]int{
		"A": 40, "a": 40,
		"B": 30, "b": 30,
		"C": 20, "c": 20,
		"D": 10, "d": 10,
		"E": 0, "e": 0,
		"":        0,
		"F":       0,
		"unknown": 0,
		"AB":      0,
		" a":      0,
	}
	for grade, want := range tests {
		assert.Equal(t, want, ComputeScore(grade), "grade %q", grade)
	}
}

func TestScoreForGrade(t *testing.T) {
	score, ok := ScoreForGrade(" b ")
	assert.True(t, ok)
	assert.Equal(t, 30, score)

	_, ok = ScoreForGrade("z")
	assert.False(t, ok)
}

func TestGradeForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{40, "A"},
		{50, "A"},
		{35, "B"},
		{34.9, "B"},
		{30, "B"},
		{20, "C"},
		{14, "D"},
		{10, "D"},
		{0, "E"},
		{-5, "E"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeForScore(tt.score), "score %v", tt.score)
	}
}
