package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_FirstTryWithoutHints(t *testing.T) {
	assert.Equal(t, 100, Score(true, 1, 0, 42))
}

func TestScore_HintPenalty(t *testing.T) {
	tests := []struct {
		name     string
		hints    int
		expected int
	}{
		{"one hint", 1, 98},
		{"two hints", 2, 96},
		{"three hints", 3, 94},
		{"never negative", 60, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(true, 1, tt.hints, 10))
		})
	}
}

func TestScore_RetryFlattensToFifty(t *testing.T) {
	// Once a retry happened the hint penalty no longer applies.
	assert.Equal(t, 50, Score(true, 2, 0, 10))
	assert.Equal(t, 50, Score(true, 2, 5, 10))
	assert.Equal(t, 50, Score(true, 3, 1, 300))
}

func TestScore_IncorrectIsZero(t *testing.T) {
	assert.Equal(t, 0, Score(false, 1, 0, 5))
	assert.Equal(t, 0, Score(false, 3, 2, 5))
}

func TestScore_ResponseTimeDoesNotChangeScore(t *testing.T) {
	for _, secs := range []int{0, 1, 59, 600, 86400} {
		assert.Equal(t, Score(true, 1, 1, 0), Score(true, 1, 1, secs))
	}
}

func TestScore_Deterministic(t *testing.T) {
	first := Score(true, 2, 3, 17)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Score(true, 2, 3, 17))
	}
}

func TestPartialCredit(t *testing.T) {
	tests := []struct {
		name     string
		base     int
		correct  int
		total    int
		expected int
	}{
		{"three of four", 100, 3, 4, 75},
		{"half of base fifty", 50, 2, 4, 25},
		{"rounds half up", 50, 1, 3, 17}, // 16.66 -> 17
		{"rounds half up exact", 25, 1, 2, 13},
		{"all correct", 100, 6, 6, 100},
		{"none correct", 100, 0, 6, 0},
		{"zero of zero", 100, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PartialCredit(tt.base, tt.correct, tt.total))
		})
	}
}

func TestFinal(t *testing.T) {
	tests := []struct {
		name         string
		fullyCorrect bool
		correct      int
		total        int
		attempts     int
		hints        int
		expected     int
	}{
		{"clean first try", true, 4, 4, 1, 0, 100},
		{"first try two hints", true, 4, 4, 1, 2, 96},
		{"correct on retry", true, 4, 4, 2, 1, 50},
		{"partial at lockout", false, 4, 6, 3, 0, 33}, // 50 * 4/6 rounded
		{"partial first pass base", false, 3, 4, 1, 1, 74}, // 98 * 3/4 = 73.5 -> 74
		{"nothing correct", false, 0, 5, 3, 0, 0},
		{"empty exercise never scores", false, 0, 0, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Final(tt.fullyCorrect, tt.correct, tt.total, tt.attempts, tt.hints, 30)
			assert.Equal(t, tt.expected, got)
		})
	}
}
