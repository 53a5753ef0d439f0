package evaluator

import (
	"encoding/json"
	"strconv"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

// sequenceUnit is the single unit an ordering attempt decomposes into: the
// whole arrangement stands or falls together.
const sequenceUnit = "sequence"

// orderingEvaluator judges exact sequence equality. Unlike the unit-based
// types there is no partial credit: one wrong position makes the attempt
// incorrect.
type orderingEvaluator struct{}

func (orderingEvaluator) Type() exercise.Type { return exercise.Ordering }

func (orderingEvaluator) Evaluate(content exercise.Content, answer json.RawMessage) Result {
	var c exercise.OrderingContent
	if err := content.Decode(&c); err != nil || len(c.CorrectOrder) == 0 {
		return Result{}
	}

	var a exercise.OrderingAnswer
	decodeAnswer(answer, &a)

	res := Result{TotalCount: 1}
	if len(a.Order) == 0 {
		return finish(&res)
	}
	res.Attempted = 1

	if equalSequences(a.Order, c.CorrectOrder) {
		res.CorrectCount = 1
		res.CorrectUnits = append(res.CorrectUnits, sequenceUnit)
	} else {
		res.WrongUnits = append(res.WrongUnits, sequenceUnit)
	}
	return finish(&res)
}

func (orderingEvaluator) PruneWrong(answer json.RawMessage, wrong []string) json.RawMessage {
	if len(wrong) == 0 {
		return answer
	}
	// The sequence is one unit: a wrong arrangement is cleared entirely.
	return exercise.MarshalAnswer(exercise.OrderingAnswer{})
}

func equalSequences(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// sentenceBuilderEvaluator judges token slots positionally. Each slot in the
// correct sentence is one unit, so a mostly right construction earns partial
// credit, unlike ordering.
type sentenceBuilderEvaluator struct{}

func (sentenceBuilderEvaluator) Type() exercise.Type { return exercise.SentenceBuilder }

func (sentenceBuilderEvaluator) Evaluate(content exercise.Content, answer json.RawMessage) Result {
	var c exercise.SentenceBuilderContent
	if err := content.Decode(&c); err != nil || len(c.CorrectTokens) == 0 {
		return Result{}
	}

	var a exercise.SentenceBuilderAnswer
	decodeAnswer(answer, &a)

	res := Result{TotalCount: len(c.CorrectTokens)}
	for i, want := range c.CorrectTokens {
		if i >= len(a.Slots) || a.Slots[i] == "" {
			continue
		}
		res.Attempted++
		unit := strconv.Itoa(i)
		if a.Slots[i] == want {
			res.CorrectCount++
			res.CorrectUnits = append(res.CorrectUnits, unit)
		} else {
			res.WrongUnits = append(res.WrongUnits, unit)
		}
	}
	return finish(&res)
}

func (sentenceBuilderEvaluator) PruneWrong(answer json.RawMessage, wrong []string) json.RawMessage {
	var a exercise.SentenceBuilderAnswer
	decodeAnswer(answer, &a)
	for _, unit := range wrong {
		i, err := strconv.Atoi(unit)
		if err != nil || i < 0 || i >= len(a.Slots) {
			continue
		}
		a.Slots[i] = ""
	}
	return exercise.MarshalAnswer(a)
}
