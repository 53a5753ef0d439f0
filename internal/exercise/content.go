package exercise

import (
	"encoding/json"
	"fmt"
)

// Type identifies one of the supported interactive exercise kinds.
type Type string

const (
	Cloze           Type = "cloze"
	Categorization  Type = "categorization"
	Ordering        Type = "ordering"
	Matching        Type = "matching"
	MemoryPairs     Type = "memory_pairs"
	ImageLabeling   Type = "image_labeling"
	TextSelection   Type = "text_selection"
	SentenceBuilder Type = "sentence_builder"
	TableCompletion Type = "table_completion"
	RatingScale     Type = "rating_scale"
	Highlighting    Type = "highlighting"
)

// Types lists every supported exercise type. The evaluator registry and the
// content validator are both keyed by this closed set; adding a type means
// adding a union member here plus an evaluator, never inspecting shapes at
// runtime.
func Types() []Type {
	return []Type{
		Cloze, Categorization, Ordering, Matching, MemoryPairs,
		ImageLabeling, TextSelection, SentenceBuilder, TableCompletion,
		RatingScale, Highlighting,
	}
}

// Content is one variant of the exercise-content tagged union. Data carries
// the type-specific answer key; it is decoded by the evaluator registered for
// Kind and is never mutated after the exercise instance is created.
type Content struct {
	Kind Type            `json:"type" validate:"required"`
	Data json.RawMessage `json:"data"`
}

// NewContent builds a Content from a typed answer-key payload.
func NewContent(kind Type, payload any) (Content, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Content{}, fmt.Errorf("failed to encode %s content: %w", kind, err)
	}
	return Content{Kind: kind, Data: raw}, nil
}

// Decode unmarshals the answer key into dst. A decode failure is how
// malformed content surfaces; callers degrade to a zero-unit result rather
// than propagating the error to the learner.
func (c Content) Decode(dst any) error {
	if len(c.Data) == 0 {
		return fmt.Errorf("%s content has no answer key", c.Kind)
	}
	return json.Unmarshal(c.Data, dst)
}

// ===== ANSWER-KEY VARIANTS =====

// ClozeContent is a sentence template with hidden words. Blanks maps a stable
// blank ID to the accepted fillings; Distractors are offered alongside the
// hidden words but never accepted.
type ClozeContent struct {
	Template    string           `json:"template"`
	Blanks      map[string]Blank `json:"blanks"`
	Distractors []string         `json:"distractors,omitempty"`
}

type Blank struct {
	AcceptedAnswers []string `json:"accepted_answers"`
}

// CategorizationContent assigns each draggable item to exactly one category.
type CategorizationContent struct {
	Categories []Category         `json:"categories"`
	Items      []CategorizedItem  `json:"items"`
	Shuffle    bool               `json:"shuffle,omitempty"`
}

type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type CategorizedItem struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	CategoryID string `json:"category_id"`
}

// OrderingContent holds the items and their single canonical sequence.
type OrderingContent struct {
	Items        []SequenceItem `json:"items"`
	CorrectOrder []string       `json:"correct_order"`
}

type SequenceItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// MatchingContent pairs left-column items with right-column items by ID.
type MatchingContent struct {
	LeftItems    []MatchItem `json:"left_items"`
	RightItems   []MatchItem `json:"right_items"`
	CorrectPairs []MatchPair `json:"correct_pairs"`
}

type MatchItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type MatchPair struct {
	LeftID  string `json:"left_id"`
	RightID string `json:"right_id"`
}

// MemoryPairsContent defines the card pairs of a memory game. A pair is an
// atomic unit; uncovering both of its cards answers that unit.
type MemoryPairsContent struct {
	Pairs []MemoryPair `json:"pairs"`
}

type MemoryPair struct {
	ID    string `json:"id"`
	CardA string `json:"card_a"`
	CardB string `json:"card_b"`
}

// ImageLabelingContent maps drop zones on an image to the label each zone
// expects.
type ImageLabelingContent struct {
	ImageURL string            `json:"image_url,omitempty"`
	Zones    map[string]string `json:"zones"` // zone ID -> expected label ID
	Labels   []ZoneLabel       `json:"labels"`
}

type ZoneLabel struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// TextSelectionContent presents a passage of selectable words of which a
// subset is the target.
type TextSelectionContent struct {
	Words []SelectableWord `json:"words"`
}

type SelectableWord struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	IsTarget bool   `json:"is_target"`
}

// SentenceBuilderContent holds the correct token sequence plus extra tokens
// offered to the learner. Slots are positional units.
type SentenceBuilderContent struct {
	CorrectTokens []string `json:"correct_tokens"`
	ExtraTokens   []string `json:"extra_tokens,omitempty"`
}

// TableCompletionContent gives the expected value for every fillable cell.
type TableCompletionContent struct {
	Headers []string          `json:"headers,omitempty"`
	Cells   map[string]string `json:"cells"` // cell ID -> expected value
}

// RatingScaleContent is a single numeric target on a bounded scale.
type RatingScaleContent struct {
	Min       int `json:"min"`
	Max       int `json:"max"`
	Target    int `json:"target"`
	Tolerance int `json:"tolerance,omitempty"`
}

// HighlightingContent presents tokens and the set the learner must highlight.
type HighlightingContent struct {
	Tokens    []HighlightToken `json:"tokens"`
	TargetIDs []string         `json:"target_ids"`
}

type HighlightToken struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
