// Package scoring holds the numeric policy shared by every exercise type.
// All functions are pure and total: identical inputs always yield identical
// scores, which keeps a failed telemetry upload safe to retry.
package scoring

import "math"

const (
	// MaxScore is the flawless first-attempt score.
	MaxScore = 100

	// HintPenalty is subtracted from MaxScore per revealed hint on a
	// first-attempt success.
	HintPenalty = 2

	// RetryScore is the fixed score for a correct answer after one or more
	// retries, regardless of retry count. A flat value discourages
	// attempt-spamming without erasing all credit.
	RetryScore = 50

	// MaxAttempts is the fail-open lock threshold: the attempt locks and a
	// score is still emitted even when not fully correct.
	MaxAttempts = 3
)

// Score maps a terminal evaluation to an integer score in [0, 100].
// responseTimeSec is accepted for future weighting but the current policy
// does not use it.
func Score(isCorrect bool, attempts, hintsUsed, responseTimeSec int) int {
	_ = responseTimeSec
	if !isCorrect {
		return 0
	}
	if attempts > 1 {
		return RetryScore
	}
	s := MaxScore - hintsUsed*HintPenalty
	if s < 0 {
		return 0
	}
	return s
}

// PartialCredit scales base by correctCount/totalCount, rounding half up.
// 0/0 yields 0: a question with no extractable units is never correct.
func PartialCredit(base, correctCount, totalCount int) int {
	if totalCount <= 0 || correctCount <= 0 {
		return 0
	}
	if correctCount >= totalCount {
		return base
	}
	return int(math.Floor(float64(base)*float64(correctCount)/float64(totalCount) + 0.5))
}

// Final combines the policy score with the partial-credit multiplier for one
// terminal evaluation. A fully correct answer earns the plain policy score; a
// partially correct one earns the score the policy would have awarded,
// scaled by the fraction of units answered correctly.
func Final(fullyCorrect bool, correctCount, totalCount, attempts, hintsUsed, responseTimeSec int) int {
	if fullyCorrect {
		return Score(true, attempts, hintsUsed, responseTimeSec)
	}
	if correctCount > 0 && totalCount > 0 {
		base := Score(true, attempts, hintsUsed, responseTimeSec)
		return PartialCredit(base, correctCount, totalCount)
	}
	return Score(false, attempts, hintsUsed, responseTimeSec)
}
