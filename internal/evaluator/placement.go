package evaluator

import (
	"encoding/json"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

// categorizationEvaluator judges bucket placement. Each item is one unit,
// compared by item ID against the category the answer key assigns it.
type categorizationEvaluator struct{}

func (categorizationEvaluator) Type() exercise.Type { return exercise.Categorization }

func (categorizationEvaluator) Evaluate(content exercise.Content, answer json.RawMessage) Result {
	var c exercise.CategorizationContent
	if err := content.Decode(&c); err != nil || len(c.Items) == 0 {
		return Result{}
	}

	var a exercise.CategorizationAnswer
	decodeAnswer(answer, &a)

	res := Result{TotalCount: len(c.Items)}
	for _, item := range c.Items {
		placed, ok := a.Placements[item.ID]
		if !ok || placed == "" {
			continue
		}
		res.Attempted++
		if placed == item.CategoryID {
			res.CorrectCount++
			res.CorrectUnits = append(res.CorrectUnits, item.ID)
		} else {
			res.WrongUnits = append(res.WrongUnits, item.ID)
		}
	}
	return finish(&res)
}

func (categorizationEvaluator) PruneWrong(answer json.RawMessage, wrong []string) json.RawMessage {
	var a exercise.CategorizationAnswer
	decodeAnswer(answer, &a)
	for _, id := range wrong {
		delete(a.Placements, id)
	}
	return exercise.MarshalAnswer(a)
}

// matchingEvaluator judges left/right pair connections. The unit is the left
// item; a connection is correct when it reaches the right item the key pairs
// it with.
type matchingEvaluator struct{}

func (matchingEvaluator) Type() exercise.Type { return exercise.Matching }

func (matchingEvaluator) Evaluate(content exercise.Content, answer json.RawMessage) Result {
	var c exercise.MatchingContent
	if err := content.Decode(&c); err != nil || len(c.CorrectPairs) == 0 {
		return Result{}
	}

	var a exercise.MatchingAnswer
	decodeAnswer(answer, &a)

	key := make(map[string]string, len(c.CorrectPairs))
	for _, p := range c.CorrectPairs {
		key[p.LeftID] = p.RightID
	}

	res := Result{TotalCount: len(key)}
	for leftID, rightID := range key {
		got, ok := a.Pairs[leftID]
		if !ok || got == "" {
			continue
		}
		res.Attempted++
		if got == rightID {
			res.CorrectCount++
			res.CorrectUnits = append(res.CorrectUnits, leftID)
		} else {
			res.WrongUnits = append(res.WrongUnits, leftID)
		}
	}
	return finish(&res)
}

func (matchingEvaluator) PruneWrong(answer json.RawMessage, wrong []string) json.RawMessage {
	var a exercise.MatchingAnswer
	decodeAnswer(answer, &a)
	for _, id := range wrong {
		delete(a.Pairs, id)
	}
	return exercise.MarshalAnswer(a)
}

// imageLabelingEvaluator judges labels dropped onto image zones. The unit is
// the zone.
type imageLabelingEvaluator struct{}

func (imageLabelingEvaluator) Type() exercise.Type { return exercise.ImageLabeling }

func (imageLabelingEvaluator) Evaluate(content exercise.Content, answer json.RawMessage) Result {
	var c exercise.ImageLabelingContent
	if err := content.Decode(&c); err != nil || len(c.Zones) == 0 {
		return Result{}
	}

	var a exercise.ImageLabelingAnswer
	decodeAnswer(answer, &a)

	res := Result{TotalCount: len(c.Zones)}
	for zoneID, labelID := range c.Zones {
		got, ok := a.Zones[zoneID]
		if !ok || got == "" {
			continue
		}
		res.Attempted++
		if got == labelID {
			res.CorrectCount++
			res.CorrectUnits = append(res.CorrectUnits, zoneID)
		} else {
			res.WrongUnits = append(res.WrongUnits, zoneID)
		}
	}
	return finish(&res)
}

func (imageLabelingEvaluator) PruneWrong(answer json.RawMessage, wrong []string) json.RawMessage {
	var a exercise.ImageLabelingAnswer
	decodeAnswer(answer, &a)
	for _, id := range wrong {
		delete(a.Zones, id)
	}
	return exercise.MarshalAnswer(a)
}

// memoryPairsEvaluator judges uncovered memory-game pairs. Only pair IDs from
// the answer key count; anything else in the working answer is a wrong unit.
type memoryPairsEvaluator struct{}

func (memoryPairsEvaluator) Type() exercise.Type { return exercise.MemoryPairs }

func (memoryPairsEvaluator) Evaluate(content exercise.Content, answer json.RawMessage) Result {
	var c exercise.MemoryPairsContent
	if err := content.Decode(&c); err != nil || len(c.Pairs) == 0 {
		return Result{}
	}

	var a exercise.MemoryPairsAnswer
	decodeAnswer(answer, &a)

	valid := make(map[string]struct{}, len(c.Pairs))
	for _, p := range c.Pairs {
		valid[p.ID] = struct{}{}
	}

	res := Result{TotalCount: len(c.Pairs)}
	seen := make(map[string]struct{}, len(a.FoundPairs))
	for _, id := range a.FoundPairs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		res.Attempted++
		if _, ok := valid[id]; ok {
			res.CorrectCount++
			res.CorrectUnits = append(res.CorrectUnits, id)
		} else {
			res.WrongUnits = append(res.WrongUnits, id)
		}
	}
	return finish(&res)
}

func (memoryPairsEvaluator) PruneWrong(answer json.RawMessage, wrong []string) json.RawMessage {
	var a exercise.MemoryPairsAnswer
	decodeAnswer(answer, &a)
	drop := toSet(wrong)
	kept := a.FoundPairs[:0]
	for _, id := range a.FoundPairs {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	a.FoundPairs = kept
	return exercise.MarshalAnswer(a)
}
