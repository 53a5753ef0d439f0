package evaluator

import (
	"encoding/json"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

const ratingUnit = "value"

// ratingScaleEvaluator judges a single numeric pick against the target,
// within the content's tolerance.
type ratingScaleEvaluator struct{}

func (ratingScaleEvaluator) Type() exercise.Type { return exercise.RatingScale }

func (ratingScaleEvaluator) Evaluate(content exercise.Content, answer json.RawMessage) Result {
	var c exercise.RatingScaleContent
	if err := content.Decode(&c); err != nil || c.Max < c.Min {
		return Result{}
	}

	var a exercise.RatingScaleAnswer
	decodeAnswer(answer, &a)

	res := Result{TotalCount: 1}
	if a.Value == nil {
		return finish(&res)
	}
	res.Attempted = 1

	diff := *a.Value - c.Target
	if diff < 0 {
		diff = -diff
	}
	if diff <= c.Tolerance {
		res.CorrectCount = 1
		res.CorrectUnits = append(res.CorrectUnits, ratingUnit)
	} else {
		res.WrongUnits = append(res.WrongUnits, ratingUnit)
	}
	return finish(&res)
}

func (ratingScaleEvaluator) PruneWrong(answer json.RawMessage, wrong []string) json.RawMessage {
	if len(wrong) == 0 {
		return answer
	}
	return exercise.MarshalAnswer(exercise.RatingScaleAnswer{})
}
