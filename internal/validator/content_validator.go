package validator

import (
	"fmt"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

// ContentValidator checks that an exercise's answer-key payload is well
// formed for its type before the exercise is stored. The engine degrades
// gracefully on malformed content at play time; this validator keeps such
// content from being created in the first place.
type ContentValidator struct{}

func NewContentValidator() *ContentValidator {
	return &ContentValidator{}
}

// Validate dispatches on the content's type tag.
func (v *ContentValidator) Validate(content exercise.Content) error {
	switch content.Kind {
	case exercise.Cloze:
		return v.validateCloze(content)
	case exercise.Categorization:
		return v.validateCategorization(content)
	case exercise.Ordering:
		return v.validateOrdering(content)
	case exercise.Matching:
		return v.validateMatching(content)
	case exercise.MemoryPairs:
		return v.validateMemoryPairs(content)
	case exercise.ImageLabeling:
		return v.validateImageLabeling(content)
	case exercise.TextSelection:
		return v.validateTextSelection(content)
	case exercise.SentenceBuilder:
		return v.validateSentenceBuilder(content)
	case exercise.TableCompletion:
		return v.validateTableCompletion(content)
	case exercise.RatingScale:
		return v.validateRatingScale(content)
	case exercise.Highlighting:
		return v.validateHighlighting(content)
	default:
		return fmt.Errorf("unsupported exercise type: %s", content.Kind)
	}
}

func (v *ContentValidator) validateCloze(content exercise.Content) error {
	var c exercise.ClozeContent
	if err := content.Decode(&c); err != nil {
		return fmt.Errorf("invalid cloze content: %w", err)
	}
	if len(c.Blanks) == 0 {
		return fmt.Errorf("cloze must have at least 1 blank")
	}
	for id, blank := range c.Blanks {
		if len(blank.AcceptedAnswers) == 0 {
			return fmt.Errorf("blank %q has no accepted answers", id)
		}
	}
	return nil
}

func (v *ContentValidator) validateCategorization(content exercise.Content) error {
	var c exercise.CategorizationContent
	if err := content.Decode(&c); err != nil {
		return fmt.Errorf("invalid categorization content: %w", err)
	}
	if len(c.Categories) < 2 {
		return fmt.Errorf("categorization must have at least 2 categories")
	}
	if len(c.Items) == 0 {
		return fmt.Errorf("categorization must have at least 1 item")
	}

	categories := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.ID == "" {
			return fmt.Errorf("category ID cannot be empty")
		}
		categories[cat.ID] = true
	}
	for _, item := range c.Items {
		if item.ID == "" {
			return fmt.Errorf("item ID cannot be empty")
		}
		if !categories[item.CategoryID] {
			return fmt.Errorf("item %q references unknown category %q", item.ID, item.CategoryID)
		}
	}
	return nil
}

func (v *ContentValidator) validateOrdering(content exercise.Content) error {
	var c exercise.OrderingContent
	if err := content.Decode(&c); err != nil {
		return fmt.Errorf("invalid ordering content: %w", err)
	}
	if len(c.CorrectOrder) < 2 {
		return fmt.Errorf("ordering must have at least 2 items")
	}

	items := make(map[string]bool, len(c.Items))
	for _, item := range c.Items {
		items[item.ID] = true
	}
	for _, id := range c.CorrectOrder {
		if !items[id] {
			return fmt.Errorf("correct order references unknown item %q", id)
		}
	}
	return nil
}

func (v *ContentValidator) validateMatching(content exercise.Content) error {
	var c exercise.MatchingContent
	if err := content.Decode(&c); err != nil {
		return fmt.Errorf("invalid matching content: %w", err)
	}
	if len(c.CorrectPairs) == 0 {
		return fmt.Errorf("matching must have at least 1 pair")
	}

	left := make(map[string]bool, len(c.LeftItems))
	for _, item := range c.LeftItems {
		left[item.ID] = true
	}
	right := make(map[string]bool, len(c.RightItems))
	for _, item := range c.RightItems {
		right[item.ID] = true
	}
	seen := make(map[string]bool, len(c.CorrectPairs))
	for _, pair := range c.CorrectPairs {
		if !left[pair.LeftID] {
			return fmt.Errorf("pair references unknown left item %q", pair.LeftID)
		}
		if !right[pair.RightID] {
			return fmt.Errorf("pair references unknown right item %q", pair.RightID)
		}
		if seen[pair.LeftID] {
			return fmt.Errorf("left item %q is paired more than once", pair.LeftID)
		}
		seen[pair.LeftID] = true
	}
	return nil
}

func (v *ContentValidator) validateMemoryPairs(content exercise.Content) error {
	var c exercise.MemoryPairsContent
	if err := content.Decode(&c); err != nil {
		return fmt.Errorf("invalid memory pairs content: %w", err)
	}
	if len(c.Pairs) < 2 {
		return fmt.Errorf("memory game must have at least 2 pairs")
	}
	seen := make(map[string]bool, len(c.Pairs))
	for _, p := range c.Pairs {
		if p.ID == "" {
			return fmt.Errorf("pair ID cannot be empty")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate pair ID %q", p.ID)
		}
		seen[p.ID] = true
		if p.CardA == "" || p.CardB == "" {
			return fmt.Errorf("pair %q has an empty card", p.ID)
		}
	}
	return nil
}

func (v *ContentValidator) validateImageLabeling(content exercise.Content) error {
	var c exercise.ImageLabelingContent
	if err := content.Decode(&c); err != nil {
		return fmt.Errorf("invalid image labeling content: %w", err)
	}
	if len(c.Zones) == 0 {
		return fmt.Errorf("image labeling must have at least 1 zone")
	}

	labels := make(map[string]bool, len(c.Labels))
	for _, l := range c.Labels {
		labels[l.ID] = true
	}
	for zone, label := range c.Zones {
		if !labels[label] {
			return fmt.Errorf("zone %q expects unknown label %q", zone, label)
		}
	}
	return nil
}

func (v *ContentValidator) validateTextSelection(content exercise.Content) error {
	var c exercise.TextSelectionContent
	if err := content.Decode(&c); err != nil {
		return fmt.Errorf("invalid text selection content: %w", err)
	}
	targets := 0
	for _, w := range c.Words {
		if w.ID == "" {
			return fmt.Errorf("word ID cannot be empty")
		}
		if w.IsTarget {
			targets++
		}
	}
	if targets == 0 {
		return fmt.Errorf("text selection must have at least 1 target word")
	}
	return nil
}

func (v *ContentValidator) validateSentenceBuilder(content exercise.Content) error {
	var c exercise.SentenceBuilderContent
	if err := content.Decode(&c); err != nil {
		return fmt.Errorf("invalid sentence builder content: %w", err)
	}
	if len(c.CorrectTokens) < 2 {
		return fmt.Errorf("sentence must have at least 2 tokens")
	}
	for i, tok := range c.CorrectTokens {
		if tok == "" {
			return fmt.Errorf("token at position %d is empty", i)
		}
	}
	return nil
}

func (v *ContentValidator) validateTableCompletion(content exercise.Content) error {
	var c exercise.TableCompletionContent
	if err := content.Decode(&c); err != nil {
		return fmt.Errorf("invalid table completion content: %w", err)
	}
	if len(c.Cells) == 0 {
		return fmt.Errorf("table must have at least 1 fillable cell")
	}
	for id, expected := range c.Cells {
		if expected == "" {
			return fmt.Errorf("cell %q has no expected value", id)
		}
	}
	return nil
}

func (v *ContentValidator) validateRatingScale(content exercise.Content) error {
	var c exercise.RatingScaleContent
	if err := content.Decode(&c); err != nil {
		return fmt.Errorf("invalid rating scale content: %w", err)
	}
	if c.Max <= c.Min {
		return fmt.Errorf("scale max must be greater than min")
	}
	if c.Target < c.Min || c.Target > c.Max {
		return fmt.Errorf("target %d is outside the scale [%d, %d]", c.Target, c.Min, c.Max)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance cannot be negative")
	}
	return nil
}

func (v *ContentValidator) validateHighlighting(content exercise.Content) error {
	var c exercise.HighlightingContent
	if err := content.Decode(&c); err != nil {
		return fmt.Errorf("invalid highlighting content: %w", err)
	}
	if len(c.TargetIDs) == 0 {
		return fmt.Errorf("highlighting must have at least 1 target token")
	}
	tokens := make(map[string]bool, len(c.Tokens))
	for _, tok := range c.Tokens {
		tokens[tok.ID] = true
	}
	for _, id := range c.TargetIDs {
		if !tokens[id] {
			return fmt.Errorf("target references unknown token %q", id)
		}
	}
	return nil
}
