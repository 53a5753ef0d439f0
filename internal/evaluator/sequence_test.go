package evaluator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

func TestOrdering_Evaluate(t *testing.T) {
	ev := orderingEvaluator{}
	content := mustContent(t, exercise.Ordering, exercise.OrderingContent{
		Items: []exercise.SequenceItem{
			{ID: "a", Text: "egg"}, {ID: "b", Text: "larva"}, {ID: "c", Text: "butterfly"},
		},
		CorrectOrder: []string{"a", "b", "c"},
	})

	tests := []struct {
		name    string
		order   []string
		correct int
		fully   bool
	}{
		{"exact order", []string{"a", "b", "c"}, 1, true},
		{"one swap fails whole unit", []string{"a", "c", "b"}, 0, false},
		{"short arrangement", []string{"a", "b"}, 0, false},
		{"no arrangement", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ev.Evaluate(content, exercise.MarshalAnswer(exercise.OrderingAnswer{Order: tt.order}))
			assert.Equal(t, 1, res.TotalCount)
			assert.Equal(t, tt.correct, res.CorrectCount)
			assert.Equal(t, tt.fully, res.FullyCorrect)
		})
	}
}

func TestOrdering_PruneWrongClearsWholeSequence(t *testing.T) {
	ev := orderingEvaluator{}
	answer := exercise.MarshalAnswer(exercise.OrderingAnswer{Order: []string{"a", "c", "b"}})

	var a exercise.OrderingAnswer
	require.NoError(t, json.Unmarshal(ev.PruneWrong(answer, []string{sequenceUnit}), &a))
	assert.Empty(t, a.Order)
}

func TestSentenceBuilder_Evaluate(t *testing.T) {
	ev := sentenceBuilderEvaluator{}
	content := mustContent(t, exercise.SentenceBuilder, exercise.SentenceBuilderContent{
		CorrectTokens: []string{"the", "cat", "sleeps"},
		ExtraTokens:   []string{"dog", "runs"},
	})

	t.Run("per slot partial credit", func(t *testing.T) {
		res := ev.Evaluate(content, exercise.MarshalAnswer(exercise.SentenceBuilderAnswer{
			Slots: []string{"the", "dog", "sleeps"},
		}))
		assert.Equal(t, 3, res.TotalCount)
		assert.Equal(t, 2, res.CorrectCount)
		assert.Equal(t, []string{"1"}, res.WrongUnits)
	})

	t.Run("empty slot is unattempted not wrong", func(t *testing.T) {
		res := ev.Evaluate(content, exercise.MarshalAnswer(exercise.SentenceBuilderAnswer{
			Slots: []string{"the", "", "sleeps"},
		}))
		assert.Equal(t, 2, res.Attempted)
		assert.Empty(t, res.WrongUnits)
		assert.False(t, res.FullyCorrect)
	})
}

func TestSentenceBuilder_PruneWrongBlanksSlotInPlace(t *testing.T) {
	ev := sentenceBuilderEvaluator{}
	answer := exercise.MarshalAnswer(exercise.SentenceBuilderAnswer{
		Slots: []string{"the", "dog", "sleeps"},
	})

	var a exercise.SentenceBuilderAnswer
	require.NoError(t, json.Unmarshal(ev.PruneWrong(answer, []string{"1"}), &a))
	assert.Equal(t, []string{"the", "", "sleeps"}, a.Slots)
}
