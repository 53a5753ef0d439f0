package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/evaluator"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func clozeMachine(t *testing.T, cfg Config) *Machine {
	t.Helper()
	content, err := exercise.NewContent(exercise.Cloze, exercise.ClozeContent{
		Blanks: map[string]exercise.Blank{
			"b1": {AcceptedAnswers: []string{"sun"}},
			"b2": {AcceptedAnswers: []string{"east"}},
		},
	})
	require.NoError(t, err)

	m, err := New(content, evaluator.NewRegistry(), cfg)
	require.NoError(t, err)
	return m
}

func clozeAnswer(blanks map[string]string) json.RawMessage {
	return exercise.MarshalAnswer(exercise.ClozeAnswer{Blanks: blanks})
}

func telemetryOf(t *testing.T, out Outcome) EmitTelemetry {
	t.Helper()
	for _, eff := range out.Effects {
		if em, ok := eff.(EmitTelemetry); ok {
			return em
		}
	}
	t.Fatal("no telemetry effect emitted")
	return EmitTelemetry{}
}

func TestNew_UnknownTypeFails(t *testing.T) {
	_, err := New(exercise.Content{Kind: "sudoku"}, evaluator.NewRegistry(), Config{})
	assert.Error(t, err)
}

func TestSubmit_FirstTryCorrect(t *testing.T) {
	m := clozeMachine(t, Config{HintCount: 2})
	st := m.Interact(m.Start(t0))

	out := m.Submit(st, clozeAnswer(map[string]string{"b1": "sun", "b2": "east"}), t0.Add(30*time.Second))

	assert.Equal(t, PhaseLockedSuccess, out.State.Phase)
	assert.True(t, out.Terminal())
	assert.Equal(t, FeedbackCorrect, out.Feedback)
	assert.Equal(t, 100, out.Score)

	em := telemetryOf(t, out)
	assert.Equal(t, 100, em.Score)
	assert.Equal(t, 30, em.Record.TimeSeconds)
	assert.Equal(t, 1, em.Record.Attempts)
	assert.Equal(t, exercise.Cloze, em.Record.Variant)
}

func TestSubmit_WrongThenRetryCorrect(t *testing.T) {
	m := clozeMachine(t, Config{HintCount: 3})
	st := m.Interact(m.Start(t0))

	first := m.Submit(st, clozeAnswer(map[string]string{"b1": "sun", "b2": "west"}), t0.Add(10*time.Second))
	require.Equal(t, PhaseRetryAllowed, first.State.Phase)
	assert.Equal(t, FeedbackWrong, first.Feedback)
	assert.False(t, first.Terminal())

	// Wrong blank cleared, correct blank preserved for the retry.
	var pruned exercise.ClozeAnswer
	require.NoError(t, json.Unmarshal(first.Answer, &pruned))
	assert.Equal(t, map[string]string{"b1": "sun"}, pruned.Blanks)

	// One hint disclosed per failed pass.
	require.Len(t, first.Effects, 1)
	assert.Equal(t, RevealHint{Index: 0}, first.Effects[0])
	assert.Equal(t, 1, first.State.HintsRevealed)

	second := m.Submit(first.State, clozeAnswer(map[string]string{"b1": "sun", "b2": "east"}), t0.Add(40*time.Second))
	assert.Equal(t, PhaseLockedSuccess, second.State.Phase)
	assert.Equal(t, 50, second.Score)
}

func TestSubmit_MaxAttemptsLocksFailOpen(t *testing.T) {
	m := clozeMachine(t, Config{})
	st := m.Interact(m.Start(t0))

	wrong := clozeAnswer(map[string]string{"b1": "moon", "b2": "east"})
	var out Outcome
	for i := 0; i < 3; i++ {
		out = m.Submit(st, wrong, t0.Add(time.Duration(i+1)*10*time.Second))
		st = out.State
	}

	assert.Equal(t, PhaseLockedMaxAttempt, st.Phase)
	assert.True(t, out.Terminal())
	assert.Equal(t, 3, st.AttemptsUsed)

	// Partial credit is still emitted: one of two blanks right at retry base.
	em := telemetryOf(t, out)
	assert.Equal(t, 25, out.Score) // 50 * 1/2
	assert.Equal(t, 1, em.Record.CorrectUnits)
	assert.Equal(t, 2, em.Record.TotalUnits)
}

func TestSubmit_LockedMachineIsNoOp(t *testing.T) {
	m := clozeMachine(t, Config{})
	st := m.Interact(m.Start(t0))

	answer := clozeAnswer(map[string]string{"b1": "sun", "b2": "east"})
	first := m.Submit(st, answer, t0.Add(time.Second))
	require.True(t, first.Terminal())

	again := m.Submit(first.State, clozeAnswer(map[string]string{"b1": "moon"}), t0.Add(time.Minute))
	assert.Equal(t, first.State, again.State)
	assert.Equal(t, FeedbackNone, again.Feedback)
	assert.Empty(t, again.Effects)
	assert.Zero(t, again.Score)
}

func TestSubmit_EmptyAnswerIsIncomplete(t *testing.T) {
	m := clozeMachine(t, Config{})
	st := m.Interact(m.Start(t0))

	out := m.Submit(st, clozeAnswer(nil), t0.Add(time.Second))
	assert.Equal(t, FeedbackIncomplete, out.Feedback)
	assert.Equal(t, PhaseRetryAllowed, out.State.Phase)
	assert.Equal(t, 1, out.State.AttemptsUsed)
}

func TestSubmit_HintDisclosureCapped(t *testing.T) {
	m := clozeMachine(t, Config{HintCount: 1})
	st := m.Interact(m.Start(t0))
	wrong := clozeAnswer(map[string]string{"b1": "moon", "b2": "west"})

	first := m.Submit(st, wrong, t0.Add(time.Second))
	require.Len(t, first.Effects, 1)

	second := m.Submit(first.State, wrong, t0.Add(2*time.Second))
	// All hints spent: the second failed pass discloses nothing new.
	for _, eff := range second.Effects {
		_, isHint := eff.(RevealHint)
		assert.False(t, isHint)
	}
	assert.Equal(t, 1, second.State.HintsRevealed)
}

func TestSubmit_RetryPricingOverridesHintPenalty(t *testing.T) {
	m := clozeMachine(t, Config{HintCount: 3, MaxAttempts: 5})
	st := m.Interact(m.Start(t0))

	wrong := clozeAnswer(map[string]string{"b1": "moon", "b2": "west"})
	out := m.Submit(st, wrong, t0.Add(time.Second))
	out = m.Submit(out.State, wrong, t0.Add(2*time.Second))
	require.Equal(t, 2, out.State.HintsRevealed)

	// Retry pricing wins over hint pricing once attempts exceed one.
	final := m.Submit(out.State, clozeAnswer(map[string]string{"b1": "sun", "b2": "east"}), t0.Add(3*time.Second))
	assert.Equal(t, 50, final.Score)
}

func TestExamMode_SingleAttemptNoHints(t *testing.T) {
	m := clozeMachine(t, Config{MaxAttempts: 3, HintCount: 4, ExamMode: true})
	assert.Equal(t, 1, m.Config().MaxAttempts)
	assert.Zero(t, m.Config().HintCount)

	st := m.Interact(m.Start(t0))
	out := m.Submit(st, clozeAnswer(map[string]string{"b1": "moon", "b2": "west"}), t0.Add(time.Second))

	assert.Equal(t, PhaseLockedMaxAttempt, out.State.Phase)
	assert.True(t, out.Terminal())
	for _, eff := range out.Effects {
		_, isHint := eff.(RevealHint)
		assert.False(t, isHint)
	}
}

func TestReset_StartsFreshPassAndCountsIt(t *testing.T) {
	m := clozeMachine(t, Config{HintCount: 2})
	st := m.Interact(m.Start(t0))

	out := m.Submit(st, clozeAnswer(map[string]string{"b1": "sun", "b2": "east"}), t0.Add(time.Second))
	require.True(t, out.Terminal())

	t1 := t0.Add(time.Minute)
	fresh := m.Reset(out.State, t1)

	assert.Equal(t, PhaseIdle, fresh.Phase)
	assert.False(t, fresh.Locked)
	assert.Zero(t, fresh.AttemptsUsed)
	assert.Zero(t, fresh.HintsRevealed)
	assert.Equal(t, 1, fresh.Resets)
	assert.Equal(t, t1, fresh.StartedAt)

	// The fresh pass is scored independently.
	again := m.Submit(m.Interact(fresh), clozeAnswer(map[string]string{"b1": "sun", "b2": "east"}), t1.Add(5*time.Second))
	assert.Equal(t, 100, again.Score)
	assert.Equal(t, 1, telemetryOf(t, again).Record.Resets)
}

func TestInteract_NoOpOncePastIdle(t *testing.T) {
	m := clozeMachine(t, Config{})
	st := m.Interact(m.Start(t0))
	assert.Equal(t, PhaseInteracting, st.Phase)
	assert.Equal(t, st, m.Interact(st))
}

func TestLock_EmitsTelemetryExactlyOnce(t *testing.T) {
	m := clozeMachine(t, Config{})
	st := m.Interact(m.Start(t0))

	out := m.Submit(st, clozeAnswer(map[string]string{"b1": "sun", "b2": "east"}), t0.Add(time.Second))
	count := 0
	for _, eff := range out.Effects {
		if _, ok := eff.(EmitTelemetry); ok {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
