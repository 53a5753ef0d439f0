package evaluator

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

// Result is the outcome of evaluating one working answer against the answer
// key. Counts are in atomic units (blanks, placements, pairs, cells, ...).
// Malformed or missing content degrades to TotalCount == 0; callers must
// treat 0/0 as "not correct" rather than dividing.
type Result struct {
	CorrectCount int      `json:"correct_count"`
	TotalCount   int      `json:"total_count"`
	FullyCorrect bool     `json:"fully_correct"`
	Attempted    int      `json:"attempted"`
	CorrectUnits []string `json:"correct_units,omitempty"`
	WrongUnits   []string `json:"wrong_units,omitempty"`
}

// Evaluator judges one exercise type. Evaluate never mutates its inputs and
// never panics on malformed content or answers. PruneWrong returns a copy of
// the working answer with the given wrong units cleared, preserving correct
// placements so the learner does not redo them on retry.
type Evaluator interface {
	Type() exercise.Type
	Evaluate(content exercise.Content, answer json.RawMessage) Result
	PruneWrong(answer json.RawMessage, wrong []string) json.RawMessage
}

// Registry routes by exercise type to the registered Evaluator. The set is
// closed: every member of exercise.Types has exactly one strategy.
type Registry struct {
	strategies map[exercise.Type]Evaluator
}

// NewRegistry installs the built-in strategies for all eleven exercise types.
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[exercise.Type]Evaluator)}
	for _, ev := range []Evaluator{
		clozeEvaluator{},
		categorizationEvaluator{},
		orderingEvaluator{},
		matchingEvaluator{},
		memoryPairsEvaluator{},
		imageLabelingEvaluator{},
		textSelectionEvaluator{},
		sentenceBuilderEvaluator{},
		tableCompletionEvaluator{},
		ratingScaleEvaluator{},
		highlightingEvaluator{},
	} {
		r.strategies[ev.Type()] = ev
	}
	return r
}

// For returns the evaluator registered for the given exercise type.
func (r *Registry) For(t exercise.Type) (Evaluator, bool) {
	ev, ok := r.strategies[t]
	return ev, ok
}

// ===== SHARED HELPERS =====

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func matchesAny(got string, accepted []string) bool {
	n := normalize(got)
	for _, a := range accepted {
		if normalize(a) == n {
			return true
		}
	}
	return false
}

func finish(res *Result) Result {
	sort.Strings(res.CorrectUnits)
	sort.Strings(res.WrongUnits)
	res.FullyCorrect = res.TotalCount > 0 &&
		res.CorrectCount == res.TotalCount &&
		len(res.WrongUnits) == 0
	return *res
}

func toSet(ids []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func decodeAnswer(answer json.RawMessage, dst any) {
	if len(answer) == 0 {
		return
	}
	// A malformed working answer counts as an empty one.
	_ = json.Unmarshal(answer, dst)
}
