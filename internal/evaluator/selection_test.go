package evaluator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

func TestTextSelection_Evaluate(t *testing.T) {
	ev := textSelectionEvaluator{}
	content := mustContent(t, exercise.TextSelection, exercise.TextSelectionContent{
		Words: []exercise.SelectableWord{
			{ID: "w1", Text: "run", IsTarget: true},
			{ID: "w2", Text: "blue"},
			{ID: "w3", Text: "jump", IsTarget: true},
			{ID: "w4", Text: "table"},
		},
	})

	tests := []struct {
		name     string
		selected []string
		fully    bool
		wrong    []string
	}{
		{"exact targets", []string{"w1", "w3"}, true, nil},
		{"extra selection blocks success", []string{"w1", "w3", "w2"}, false, []string{"w2"}},
		{"missing target", []string{"w1"}, false, nil},
		{"duplicates collapse", []string{"w1", "w1", "w3"}, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ev.Evaluate(content, exercise.MarshalAnswer(exercise.TextSelectionAnswer{Selected: tt.selected}))
			assert.Equal(t, 2, res.TotalCount)
			assert.Equal(t, tt.fully, res.FullyCorrect)
			assert.Equal(t, tt.wrong, res.WrongUnits)
		})
	}
}

func TestTextSelection_PruneWrongDropsOnlyWrongSelections(t *testing.T) {
	ev := textSelectionEvaluator{}
	answer := exercise.MarshalAnswer(exercise.TextSelectionAnswer{Selected: []string{"w1", "w2", "w3"}})

	var a exercise.TextSelectionAnswer
	require.NoError(t, json.Unmarshal(ev.PruneWrong(answer, []string{"w2"}), &a))
	assert.Equal(t, []string{"w1", "w3"}, a.Selected)
}

func TestHighlighting_Evaluate(t *testing.T) {
	ev := highlightingEvaluator{}
	content := mustContent(t, exercise.Highlighting, exercise.HighlightingContent{
		Tokens: []exercise.HighlightToken{
			{ID: "t1", Text: "quickly"}, {ID: "t2", Text: "house"}, {ID: "t3", Text: "softly"},
		},
		TargetIDs: []string{"t1", "t3"},
	})

	res := ev.Evaluate(content, exercise.MarshalAnswer(exercise.HighlightingAnswer{
		Selected: []string{"t1", "t2"},
	}))

	assert.Equal(t, 2, res.TotalCount)
	assert.Equal(t, 1, res.CorrectCount)
	assert.Equal(t, []string{"t2"}, res.WrongUnits)
	assert.False(t, res.FullyCorrect)
}

func TestHighlighting_NoTargetsDegrades(t *testing.T) {
	ev := highlightingEvaluator{}
	content := mustContent(t, exercise.Highlighting, exercise.HighlightingContent{
		Tokens: []exercise.HighlightToken{{ID: "t1", Text: "word"}},
	})

	res := ev.Evaluate(content, exercise.MarshalAnswer(exercise.HighlightingAnswer{Selected: []string{"t1"}}))
	assert.Zero(t, res.TotalCount)
	assert.False(t, res.FullyCorrect)
}
