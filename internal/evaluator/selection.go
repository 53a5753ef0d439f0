package evaluator

import (
	"encoding/json"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

// textSelectionEvaluator judges word selection in a passage. The unit count
// is the number of target words; selecting a non-target is a wrong unit and
// blocks full correctness even when every target was found.
type textSelectionEvaluator struct{}

func (textSelectionEvaluator) Type() exercise.Type { return exercise.TextSelection }

func (textSelectionEvaluator) Evaluate(content exercise.Content, answer json.RawMessage) Result {
	var c exercise.TextSelectionContent
	if err := content.Decode(&c); err != nil {
		return Result{}
	}

	targets := make(map[string]struct{})
	for _, w := range c.Words {
		if w.IsTarget {
			targets[w.ID] = struct{}{}
		}
	}
	if len(targets) == 0 {
		return Result{}
	}

	var a exercise.TextSelectionAnswer
	decodeAnswer(answer, &a)

	return judgeSelection(targets, a.Selected)
}

func (textSelectionEvaluator) PruneWrong(answer json.RawMessage, wrong []string) json.RawMessage {
	var a exercise.TextSelectionAnswer
	decodeAnswer(answer, &a)
	a.Selected = dropIDs(a.Selected, wrong)
	return exercise.MarshalAnswer(exercise.TextSelectionAnswer{Selected: a.Selected})
}

// highlightingEvaluator judges highlighted tokens against a target set. Same
// selection semantics as text selection, over a token stream with an explicit
// target list.
type highlightingEvaluator struct{}

func (highlightingEvaluator) Type() exercise.Type { return exercise.Highlighting }

func (highlightingEvaluator) Evaluate(content exercise.Content, answer json.RawMessage) Result {
	var c exercise.HighlightingContent
	if err := content.Decode(&c); err != nil || len(c.TargetIDs) == 0 {
		return Result{}
	}

	var a exercise.HighlightingAnswer
	decodeAnswer(answer, &a)

	return judgeSelection(toSet(c.TargetIDs), a.Selected)
}

func (highlightingEvaluator) PruneWrong(answer json.RawMessage, wrong []string) json.RawMessage {
	var a exercise.HighlightingAnswer
	decodeAnswer(answer, &a)
	a.Selected = dropIDs(a.Selected, wrong)
	return exercise.MarshalAnswer(exercise.HighlightingAnswer{Selected: a.Selected})
}

func judgeSelection(targets map[string]struct{}, selected []string) Result {
	res := Result{TotalCount: len(targets)}
	seen := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		res.Attempted++
		if _, ok := targets[id]; ok {
			res.CorrectCount++
			res.CorrectUnits = append(res.CorrectUnits, id)
		} else {
			res.WrongUnits = append(res.WrongUnits, id)
		}
	}
	return finish(&res)
}

func dropIDs(ids, wrong []string) []string {
	drop := toSet(wrong)
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	return kept
}
