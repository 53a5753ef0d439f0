package evaluator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

func intPtr(v int) *int { return &v }

func TestRatingScale_Evaluate(t *testing.T) {
	ev := ratingScaleEvaluator{}
	content := mustContent(t, exercise.RatingScale, exercise.RatingScaleContent{
		Min: 1, Max: 10, Target: 7, Tolerance: 1,
	})

	tests := []struct {
		name  string
		value *int
		fully bool
	}{
		{"exact target", intPtr(7), true},
		{"within tolerance below", intPtr(6), true},
		{"within tolerance above", intPtr(8), true},
		{"outside tolerance", intPtr(5), false},
		{"no pick", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ev.Evaluate(content, exercise.MarshalAnswer(exercise.RatingScaleAnswer{Value: tt.value}))
			assert.Equal(t, 1, res.TotalCount)
			assert.Equal(t, tt.fully, res.FullyCorrect)
		})
	}
}

func TestRatingScale_InvertedBoundsDegrade(t *testing.T) {
	ev := ratingScaleEvaluator{}
	content := mustContent(t, exercise.RatingScale, exercise.RatingScaleContent{
		Min: 10, Max: 1, Target: 5,
	})

	res := ev.Evaluate(content, exercise.MarshalAnswer(exercise.RatingScaleAnswer{Value: intPtr(5)}))
	assert.Zero(t, res.TotalCount)
	assert.False(t, res.FullyCorrect)
}

func TestRatingScale_PruneWrongClearsValue(t *testing.T) {
	ev := ratingScaleEvaluator{}
	answer := exercise.MarshalAnswer(exercise.RatingScaleAnswer{Value: intPtr(3)})

	var a exercise.RatingScaleAnswer
	require.NoError(t, json.Unmarshal(ev.PruneWrong(answer, []string{ratingUnit}), &a))
	assert.Nil(t, a.Value)
}
