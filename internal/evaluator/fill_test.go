package evaluator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

func clozeFixture(t *testing.T) exercise.Content {
	return mustContent(t, exercise.Cloze, exercise.ClozeContent{
		Template: "The {{b1}} rises in the {{b2}}.",
		Blanks: map[string]exercise.Blank{
			"b1": {AcceptedAnswers: []string{"sun"}},
			"b2": {AcceptedAnswers: []string{"east", "East"}},
		},
		Distractors: []string{"moon", "west"},
	})
}

func TestCloze_Evaluate(t *testing.T) {
	ev := clozeEvaluator{}
	content := clozeFixture(t)

	tests := []struct {
		name        string
		answer      exercise.ClozeAnswer
		correct     int
		attempted   int
		fully       bool
		wrongUnits  []string
	}{
		{
			name:      "all correct",
			answer:    exercise.ClozeAnswer{Blanks: map[string]string{"b1": "sun", "b2": "east"}},
			correct:   2,
			attempted: 2,
			fully:     true,
		},
		{
			name:      "case insensitive",
			answer:    exercise.ClozeAnswer{Blanks: map[string]string{"b1": "  SUN ", "b2": "EAST"}},
			correct:   2,
			attempted: 2,
			fully:     true,
		},
		{
			name:       "one wrong",
			answer:     exercise.ClozeAnswer{Blanks: map[string]string{"b1": "sun", "b2": "west"}},
			correct:    1,
			attempted:  2,
			wrongUnits: []string{"b2"},
		},
		{
			name:      "partially filled is not fully correct",
			answer:    exercise.ClozeAnswer{Blanks: map[string]string{"b1": "sun"}},
			correct:   1,
			attempted: 1,
		},
		{
			name:   "empty answer",
			answer: exercise.ClozeAnswer{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ev.Evaluate(content, exercise.MarshalAnswer(tt.answer))
			assert.Equal(t, 2, res.TotalCount)
			assert.Equal(t, tt.correct, res.CorrectCount)
			assert.Equal(t, tt.attempted, res.Attempted)
			assert.Equal(t, tt.fully, res.FullyCorrect)
			assert.Equal(t, tt.wrongUnits, res.WrongUnits)
		})
	}
}

func TestCloze_PruneWrongKeepsCorrectBlanks(t *testing.T) {
	ev := clozeEvaluator{}
	answer := exercise.MarshalAnswer(exercise.ClozeAnswer{
		Blanks: map[string]string{"b1": "sun", "b2": "west"},
	})

	pruned := ev.PruneWrong(answer, []string{"b2"})

	var a exercise.ClozeAnswer
	require.NoError(t, json.Unmarshal(pruned, &a))
	assert.Equal(t, map[string]string{"b1": "sun"}, a.Blanks)
}

func TestTableCompletion_Evaluate(t *testing.T) {
	ev := tableCompletionEvaluator{}
	content := mustContent(t, exercise.TableCompletion, exercise.TableCompletionContent{
		Headers: []string{"Planet", "Moons"},
		Cells:   map[string]string{"r1c2": "1", "r2c2": "2"},
	})

	res := ev.Evaluate(content, exercise.MarshalAnswer(exercise.TableCompletionAnswer{
		Cells: map[string]string{"r1c2": " 1 ", "r2c2": "79"},
	}))

	assert.Equal(t, 2, res.TotalCount)
	assert.Equal(t, 1, res.CorrectCount)
	assert.Equal(t, []string{"r2c2"}, res.WrongUnits)
	assert.False(t, res.FullyCorrect)
}

func TestTableCompletion_PruneWrong(t *testing.T) {
	ev := tableCompletionEvaluator{}
	answer := exercise.MarshalAnswer(exercise.TableCompletionAnswer{
		Cells: map[string]string{"r1c2": "1", "r2c2": "79"},
	})

	var a exercise.TableCompletionAnswer
	require.NoError(t, json.Unmarshal(ev.PruneWrong(answer, []string{"r2c2"}), &a))
	assert.Equal(t, map[string]string{"r1c2": "1"}, a.Cells)
}
