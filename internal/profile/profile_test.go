package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestFold_FirstSample(t *testing.T) {
	p := Fold(New(), Sample{
		TimeSeconds: 40, Attempts: 1, HintsUsed: 0,
		WasCorrect: true, Topic: "fractions", Media: MediaText, At: base,
	})

	assert.Equal(t, 1, p.Performance.TotalQuestionsAttempted)
	assert.Equal(t, 1, p.Performance.TotalCorrectAnswers)
	assert.Equal(t, 1.0, p.Performance.GlobalAccuracyRate)
	assert.Equal(t, 40.0, p.Performance.AverageResponseTimeSec)
	assert.Empty(t, p.Performance.ErrorRateByTopic)
	assert.Zero(t, p.Behavioral.HintDependencyScore)
	assert.Zero(t, p.Behavioral.RetryPersistence)
	assert.Equal(t, 1.0, p.Behavioral.MediaPreference.Text)
	assert.Equal(t, 40, p.Engagement.TotalTimeSec)
	assert.Equal(t, base, p.Engagement.LastActiveAt)
}

func TestFold_RunningMeans(t *testing.T) {
	p := New()
	p = Fold(p, Sample{TimeSeconds: 30, Attempts: 1, WasCorrect: true, Media: MediaText, At: base})
	p = Fold(p, Sample{TimeSeconds: 60, Attempts: 2, HintsUsed: 1, WasCorrect: false, Topic: "decimals", Media: MediaVideo, At: base.Add(time.Minute)})

	assert.Equal(t, 2, p.Performance.TotalQuestionsAttempted)
	assert.Equal(t, 0.5, p.Performance.GlobalAccuracyRate)
	assert.Equal(t, 45.0, p.Performance.AverageResponseTimeSec)
	assert.Equal(t, map[string]int{"decimals": 1}, p.Performance.ErrorRateByTopic)
	assert.Equal(t, 0.5, p.Behavioral.HintDependencyScore)
	assert.Equal(t, 0.5, p.Behavioral.RetryPersistence)
	assert.Equal(t, 0.5, p.Behavioral.MediaPreference.Text)
	assert.Equal(t, 0.5, p.Behavioral.MediaPreference.Video)
	assert.Equal(t, 90, p.Engagement.TotalTimeSec)
}

func TestFold_Invariants(t *testing.T) {
	samples := []Sample{
		{TimeSeconds: 10, Attempts: 1, WasCorrect: true, Media: MediaText, At: base},
		{TimeSeconds: 90, Attempts: 3, HintsUsed: 2, WasCorrect: false, Topic: "verbs", Media: MediaGamified, At: base.Add(time.Hour)},
		{TimeSeconds: 25, Attempts: 2, WasCorrect: true, Topic: "verbs", Media: MediaVideo, At: base.Add(2 * time.Hour)},
		{TimeSeconds: 0, Attempts: 1, HintsUsed: 1, WasCorrect: false, Topic: "nouns", Media: MediaText, At: base.Add(3 * time.Hour)},
	}

	p := New()
	for _, s := range samples {
		p = Fold(p, s)

		require.LessOrEqual(t, p.Performance.TotalCorrectAnswers, p.Performance.TotalQuestionsAttempted)
		acc := float64(p.Performance.TotalCorrectAnswers) / float64(p.Performance.TotalQuestionsAttempted)
		require.Equal(t, acc, p.Performance.GlobalAccuracyRate)
		require.GreaterOrEqual(t, p.Behavioral.HintDependencyScore, 0.0)
		require.LessOrEqual(t, p.Behavioral.HintDependencyScore, 1.0)
		require.GreaterOrEqual(t, p.Behavioral.RetryPersistence, 0.0)
		require.LessOrEqual(t, p.Behavioral.RetryPersistence, 1.0)
	}

	assert.Equal(t, map[string]int{"verbs": 1, "nouns": 1}, p.Performance.ErrorRateByTopic)
	assert.InDelta(t, 1.0,
		p.Behavioral.MediaPreference.Text+p.Behavioral.MediaPreference.Video+p.Behavioral.MediaPreference.Gamified,
		1e-9)
	assert.Equal(t, base.Add(3*time.Hour), p.Engagement.LastActiveAt)
}

func TestFold_DoesNotMutateInput(t *testing.T) {
	orig := Fold(New(), Sample{TimeSeconds: 10, Attempts: 1, WasCorrect: false, Topic: "maps", At: base})
	before := orig.Performance.ErrorRateByTopic["maps"]

	_ = Fold(orig, Sample{TimeSeconds: 5, Attempts: 1, WasCorrect: false, Topic: "maps", At: base})

	assert.Equal(t, before, orig.Performance.ErrorRateByTopic["maps"])
	assert.Equal(t, 1, orig.Performance.TotalQuestionsAttempted)
}

func TestFold_StaleTimestampDoesNotRewindActivity(t *testing.T) {
	p := Fold(New(), Sample{Attempts: 1, At: base.Add(time.Hour)})
	p = Fold(p, Sample{Attempts: 1, At: base})
	assert.Equal(t, base.Add(time.Hour), p.Engagement.LastActiveAt)
}

func TestFold_OrderInsensitivity(t *testing.T) {
	samples := []Sample{
		{TimeSeconds: 20, Attempts: 1, WasCorrect: true, Topic: "verbs", Media: MediaText, At: base},
		{TimeSeconds: 50, Attempts: 2, HintsUsed: 1, WasCorrect: false, Topic: "verbs", Media: MediaVideo, At: base.Add(time.Hour)},
		{TimeSeconds: 35, Attempts: 3, HintsUsed: 2, WasCorrect: true, Topic: "nouns", Media: MediaGamified, At: base.Add(2 * time.Hour)},
		{TimeSeconds: 5, Attempts: 1, WasCorrect: false, Media: MediaText, At: base.Add(3 * time.Hour)},
	}

	permutations := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{1, 3, 0, 2},
	}

	fold := func(order []int) Profile {
		p := New()
		for _, i := range order {
			p = Fold(p, samples[i])
		}
		return p
	}

	want := fold(permutations[0])
	for _, order := range permutations[1:] {
		got := fold(order)

		assert.Equal(t, want.Performance.TotalQuestionsAttempted, got.Performance.TotalQuestionsAttempted)
		assert.Equal(t, want.Performance.TotalCorrectAnswers, got.Performance.TotalCorrectAnswers)
		assert.Equal(t, want.Performance.GlobalAccuracyRate, got.Performance.GlobalAccuracyRate)
		assert.Equal(t, want.Performance.ErrorRateByTopic, got.Performance.ErrorRateByTopic)
		assert.Equal(t, want.Engagement.TotalTimeSec, got.Engagement.TotalTimeSec)
		assert.Equal(t, want.Engagement.LastActiveAt, got.Engagement.LastActiveAt)

		assert.InDelta(t, want.Performance.AverageResponseTimeSec, got.Performance.AverageResponseTimeSec, 1e-9)
		assert.InDelta(t, want.Behavioral.HintDependencyScore, got.Behavioral.HintDependencyScore, 1e-9)
		assert.InDelta(t, want.Behavioral.RetryPersistence, got.Behavioral.RetryPersistence, 1e-9)
		assert.InDelta(t, want.Behavioral.MediaPreference.Text, got.Behavioral.MediaPreference.Text, 1e-9)
		assert.InDelta(t, want.Behavioral.MediaPreference.Video, got.Behavioral.MediaPreference.Video, 1e-9)
		assert.InDelta(t, want.Behavioral.MediaPreference.Gamified, got.Behavioral.MediaPreference.Gamified, 1e-9)
	}
}
