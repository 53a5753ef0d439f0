package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

func content(t *testing.T, kind exercise.Type, payload any) exercise.Content {
	t.Helper()
	c, err := exercise.NewContent(kind, payload)
	require.NoError(t, err)
	return c
}

func TestContentValidator(t *testing.T) {
	v := NewContentValidator()

	tests := []struct {
		name    string
		content exercise.Content
		wantErr bool
	}{
		{
			name: "valid cloze",
			content: func() exercise.Content {
				return content(t, exercise.Cloze, exercise.ClozeContent{
					Blanks: map[string]exercise.Blank{"b1": {AcceptedAnswers: []string{"sun"}}},
				})
			}(),
		},
		{
			name: "cloze blank without answers",
			content: func() exercise.Content {
				return content(t, exercise.Cloze, exercise.ClozeContent{
					Blanks: map[string]exercise.Blank{"b1": {}},
				})
			}(),
			wantErr: true,
		},
		{
			name: "categorization item with unknown category",
			content: func() exercise.Content {
				return content(t, exercise.Categorization, exercise.CategorizationContent{
					Categories: []exercise.Category{{ID: "a"}, {ID: "b"}},
					Items:      []exercise.CategorizedItem{{ID: "i1", CategoryID: "ghost"}},
				})
			}(),
			wantErr: true,
		},
		{
			name: "ordering with one item",
			content: func() exercise.Content {
				return content(t, exercise.Ordering, exercise.OrderingContent{
					Items:        []exercise.SequenceItem{{ID: "a"}},
					CorrectOrder: []string{"a"},
				})
			}(),
			wantErr: true,
		},
		{
			name: "matching left item paired twice",
			content: func() exercise.Content {
				return content(t, exercise.Matching, exercise.MatchingContent{
					LeftItems:  []exercise.MatchItem{{ID: "l1"}},
					RightItems: []exercise.MatchItem{{ID: "r1"}, {ID: "r2"}},
					CorrectPairs: []exercise.MatchPair{
						{LeftID: "l1", RightID: "r1"},
						{LeftID: "l1", RightID: "r2"},
					},
				})
			}(),
			wantErr: true,
		},
		{
			name: "valid rating scale",
			content: func() exercise.Content {
				return content(t, exercise.RatingScale, exercise.RatingScaleContent{
					Min: 1, Max: 5, Target: 3, Tolerance: 1,
				})
			}(),
		},
		{
			name: "rating target outside scale",
			content: func() exercise.Content {
				return content(t, exercise.RatingScale, exercise.RatingScaleContent{
					Min: 1, Max: 5, Target: 9,
				})
			}(),
			wantErr: true,
		},
		{
			name: "highlighting target not in tokens",
			content: func() exercise.Content {
				return content(t, exercise.Highlighting, exercise.HighlightingContent{
					Tokens:    []exercise.HighlightToken{{ID: "t1"}},
					TargetIDs: []string{"t9"},
				})
			}(),
			wantErr: true,
		},
		{
			name:    "unknown type",
			content: exercise.Content{Kind: "crossword"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_CustomTags(t *testing.T) {
	v := New()

	type payload struct {
		Variant string `json:"variant" validate:"required,exercise_type"`
		Media   string `json:"media" validate:"omitempty,media_kind"`
	}

	assert.NoError(t, v.ValidateStruct(payload{Variant: "cloze", Media: "video"}))
	assert.Error(t, v.ValidateStruct(payload{Variant: "quiz"}))
	assert.Error(t, v.ValidateStruct(payload{Variant: "cloze", Media: "podcast"}))
}
