package evaluator

import (
	"encoding/json"
	"strings"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

// clozeEvaluator judges fill-in-the-blank sentences. Each blank is one atomic
// unit; blank IDs are stable so drag reordering in the UI never desyncs
// scoring. Comparison is case-insensitive against the accepted answers.
type clozeEvaluator struct{}

func (clozeEvaluator) Type() exercise.Type { return exercise.Cloze }

func (clozeEvaluator) Evaluate(content exercise.Content, answer json.RawMessage) Result {
	var c exercise.ClozeContent
	if err := content.Decode(&c); err != nil || len(c.Blanks) == 0 {
		return Result{}
	}

	var a exercise.ClozeAnswer
	decodeAnswer(answer, &a)

	res := Result{TotalCount: len(c.Blanks)}
	for blankID, blank := range c.Blanks {
		got, ok := a.Blanks[blankID]
		if !ok || strings.TrimSpace(got) == "" {
			continue
		}
		res.Attempted++
		if matchesAny(got, blank.AcceptedAnswers) {
			res.CorrectCount++
			res.CorrectUnits = append(res.CorrectUnits, blankID)
		} else {
			res.WrongUnits = append(res.WrongUnits, blankID)
		}
	}
	return finish(&res)
}

func (clozeEvaluator) PruneWrong(answer json.RawMessage, wrong []string) json.RawMessage {
	var a exercise.ClozeAnswer
	decodeAnswer(answer, &a)
	for _, id := range wrong {
		delete(a.Blanks, id)
	}
	return exercise.MarshalAnswer(a)
}

// tableCompletionEvaluator judges per-cell text entry. Each cell with an
// expected value is one unit.
type tableCompletionEvaluator struct{}

func (tableCompletionEvaluator) Type() exercise.Type { return exercise.TableCompletion }

func (tableCompletionEvaluator) Evaluate(content exercise.Content, answer json.RawMessage) Result {
	var c exercise.TableCompletionContent
	if err := content.Decode(&c); err != nil || len(c.Cells) == 0 {
		return Result{}
	}

	var a exercise.TableCompletionAnswer
	decodeAnswer(answer, &a)

	res := Result{TotalCount: len(c.Cells)}
	for cellID, expected := range c.Cells {
		got, ok := a.Cells[cellID]
		if !ok || strings.TrimSpace(got) == "" {
			continue
		}
		res.Attempted++
		if normalize(got) == normalize(expected) {
			res.CorrectCount++
			res.CorrectUnits = append(res.CorrectUnits, cellID)
		} else {
			res.WrongUnits = append(res.WrongUnits, cellID)
		}
	}
	return finish(&res)
}

func (tableCompletionEvaluator) PruneWrong(answer json.RawMessage, wrong []string) json.RawMessage {
	var a exercise.TableCompletionAnswer
	decodeAnswer(answer, &a)
	for _, id := range wrong {
		delete(a.Cells, id)
	}
	return exercise.MarshalAnswer(a)
}
