package exercise

import "encoding/json"

// Working answers are the learner's mutable state for one exercise instance.
// They travel through the state machine as opaque json.RawMessage (the
// telemetry contract keeps the final snapshot verbatim); the evaluator for the
// matching exercise type decodes them into the structs below.

// ClozeAnswer maps blank ID to the word the learner placed there. Absent keys
// are unfilled blanks.
type ClozeAnswer struct {
	Blanks map[string]string `json:"blanks"`
}

// CategorizationAnswer maps item ID to the category the learner dropped it in.
type CategorizationAnswer struct {
	Placements map[string]string `json:"placements"`
}

// OrderingAnswer is the learner's arrangement of item IDs.
type OrderingAnswer struct {
	Order []string `json:"order"`
}

// MatchingAnswer maps left item ID to the right item the learner connected.
type MatchingAnswer struct {
	Pairs map[string]string `json:"pairs"`
}

// MemoryPairsAnswer records the pair IDs the learner has uncovered so far.
type MemoryPairsAnswer struct {
	FoundPairs []string `json:"found_pairs"`
}

// ImageLabelingAnswer maps zone ID to the label the learner dropped on it.
type ImageLabelingAnswer struct {
	Zones map[string]string `json:"zones"`
}

// TextSelectionAnswer holds the IDs of the words the learner selected.
type TextSelectionAnswer struct {
	Selected []string `json:"selected"`
}

// SentenceBuilderAnswer is slot-aligned with the correct token sequence; an
// empty string is an unfilled slot. Keeping slots positional lets retry
// clearing remove a wrong token without shifting the others.
type SentenceBuilderAnswer struct {
	Slots []string `json:"slots"`
}

// TableCompletionAnswer maps cell ID to the learner's entry.
type TableCompletionAnswer struct {
	Cells map[string]string `json:"cells"`
}

// RatingScaleAnswer is nil until the learner picks a value.
type RatingScaleAnswer struct {
	Value *int `json:"value"`
}

// HighlightingAnswer holds the token IDs the learner highlighted.
type HighlightingAnswer struct {
	Selected []string `json:"selected"`
}

// MarshalAnswer encodes a typed working answer for transport through the
// state machine.
func MarshalAnswer(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return raw
}
