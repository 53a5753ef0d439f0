package evaluator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

func mustContent(t *testing.T, kind exercise.Type, payload any) exercise.Content {
	t.Helper()
	c, err := exercise.NewContent(kind, payload)
	require.NoError(t, err)
	return c
}

func TestRegistry_CoversEveryExerciseType(t *testing.T) {
	reg := NewRegistry()
	for _, typ := range exercise.Types() {
		ev, ok := reg.For(typ)
		require.True(t, ok, "missing evaluator for %s", typ)
		assert.Equal(t, typ, ev.Type())
	}
}

func TestRegistry_UnknownType(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.For(exercise.Type("crossword"))
	assert.False(t, ok)
}

func TestEvaluate_MalformedContentDegradesToZeroUnits(t *testing.T) {
	reg := NewRegistry()
	broken := exercise.Content{Kind: exercise.Cloze, Data: json.RawMessage(`{"blanks": 7}`)}

	for _, typ := range exercise.Types() {
		ev, ok := reg.For(typ)
		require.True(t, ok)

		broken.Kind = typ
		res := ev.Evaluate(broken, json.RawMessage(`{}`))
		assert.Zero(t, res.TotalCount, "%s should report no units for broken content", typ)
		assert.False(t, res.FullyCorrect, "%s must never be correct with 0 units", typ)
	}
}

func TestEvaluate_EmptyContentNeverFullyCorrect(t *testing.T) {
	reg := NewRegistry()
	for _, typ := range exercise.Types() {
		ev, ok := reg.For(typ)
		require.True(t, ok)

		res := ev.Evaluate(exercise.Content{Kind: typ}, nil)
		assert.False(t, res.FullyCorrect, "%s: 0/0 must not be fully correct", typ)
	}
}

func TestEvaluate_MalformedAnswerCountsAsEmpty(t *testing.T) {
	reg := NewRegistry()
	content := mustContent(t, exercise.Cloze, exercise.ClozeContent{
		Blanks: map[string]exercise.Blank{
			"b1": {AcceptedAnswers: []string{"sun"}},
		},
	})

	ev, _ := reg.For(exercise.Cloze)
	res := ev.Evaluate(content, json.RawMessage(`not json at all`))
	assert.Equal(t, 1, res.TotalCount)
	assert.Zero(t, res.Attempted)
	assert.False(t, res.FullyCorrect)
}
