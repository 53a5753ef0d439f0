// Package engine implements the per-question attempt lifecycle as an explicit
// value-object state machine. Transitions are pure: they take an AttemptState
// and a working answer and return the next state, the (possibly pruned)
// answer, and a list of effects for the caller to perform. The rendering
// layer is a thin adapter over these transitions, not the other way around.
package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/evaluator"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/scoring"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/telemetry"
)

// Phase is the observable lifecycle position of an attempt.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseInteracting      Phase = "interacting"
	PhaseRetryAllowed     Phase = "retry_allowed"
	PhaseLockedSuccess    Phase = "locked_success"
	PhaseLockedMaxAttempt Phase = "locked_max_attempts"
)

// Feedback classifies a failed evaluation so the UI can phrase its message
// without re-deriving unit counts.
type Feedback string

const (
	FeedbackCorrect    Feedback = "correct"    // fully correct
	FeedbackWrong      Feedback = "wrong"      // at least one wrong sub-unit
	FeedbackPartial    Feedback = "partial"    // some correct, rest empty
	FeedbackIncomplete Feedback = "incomplete" // nothing attempted
	FeedbackNone       Feedback = ""           // no evaluation happened (locked no-op)
)

// AttemptState is the full mutable state of one exercise instance. It is a
// value: transitions return a new copy and never touch the input. Resets
// survives "try again" cycles so behavioral analytics can count passes even
// though per-pass counters start over.
type AttemptState struct {
	Phase         Phase     `json:"phase"`
	AttemptsUsed  int       `json:"attempts_used"`
	HintsRevealed int       `json:"hints_revealed"`
	Locked        bool      `json:"locked"`
	Resets        int       `json:"resets"`
	StartedAt     time.Time `json:"started_at"`
}

// Config fixes the policy knobs for one machine instance.
type Config struct {
	MaxAttempts int  // 0 means scoring.MaxAttempts
	HintCount   int  // number of hints available for disclosure
	ExamMode    bool // suppress hints, lock on first submit
}

// Effect is an action the caller must perform after a transition. Keeping
// side effects out of the machine makes the core testable without a UI
// harness.
type Effect interface{ isEffect() }

// RevealHint asks the caller to disclose hint Index (0-based) to the learner.
type RevealHint struct{ Index int }

// EmitTelemetry carries the final score and the attempt record; produced
// exactly once per terminal lock.
type EmitTelemetry struct {
	Score  int
	Record telemetry.Data
}

func (RevealHint) isEffect()    {}
func (EmitTelemetry) isEffect() {}

// Outcome is the complete result of a Submit transition.
type Outcome struct {
	State    AttemptState
	Answer   json.RawMessage // pruned on retry, verbatim on lock
	Result   evaluator.Result
	Feedback Feedback
	Score    int // meaningful only when the outcome is terminal
	Effects  []Effect
}

// Terminal reports whether the outcome locked the attempt.
func (o Outcome) Terminal() bool { return o.State.Locked }

// Machine binds one exercise's content to its evaluator and policy. The
// answer key is immutable for the machine's lifetime.
type Machine struct {
	content exercise.Content
	eval    evaluator.Evaluator
	cfg     Config
}

// New builds a machine for the given content, resolving the evaluator from
// the registry. Exam mode collapses the attempt budget to one.
func New(content exercise.Content, reg *evaluator.Registry, cfg Config) (*Machine, error) {
	ev, ok := reg.For(content.Kind)
	if !ok {
		return nil, fmt.Errorf("no evaluator registered for exercise type %q", content.Kind)
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = scoring.MaxAttempts
	}
	if cfg.ExamMode {
		cfg.MaxAttempts = 1
		cfg.HintCount = 0
	}
	return &Machine{content: content, eval: ev, cfg: cfg}, nil
}

// Config returns the effective policy configuration.
func (m *Machine) Config() Config { return m.cfg }

// Start returns the initial state for a freshly mounted exercise.
func (m *Machine) Start(now time.Time) AttemptState {
	return AttemptState{Phase: PhaseIdle, StartedAt: now}
}

// Interact marks the first learner interaction. A no-op once locked or
// already past Idle.
func (m *Machine) Interact(st AttemptState) AttemptState {
	if st.Locked || st.Phase != PhaseIdle {
		return st
	}
	st.Phase = PhaseInteracting
	return st
}

// Submit evaluates the working answer and advances the lifecycle. Invoking a
// locked machine is a no-op, not an error: the second submit is ignored and
// no effects are produced.
func (m *Machine) Submit(st AttemptState, answer json.RawMessage, now time.Time) Outcome {
	if st.Locked {
		return Outcome{State: st, Answer: answer, Feedback: FeedbackNone}
	}

	res := m.eval.Evaluate(m.content, answer)
	st.AttemptsUsed++

	out := Outcome{Answer: answer, Result: res, Feedback: classify(res)}

	switch {
	case res.FullyCorrect:
		st.Phase = PhaseLockedSuccess
		st.Locked = true
		out.State = st
		m.lock(&out, now)

	case st.AttemptsUsed >= m.cfg.MaxAttempts:
		// Fail-open terminal lock: no more answers accepted, a score is
		// still emitted from whatever partial credit was earned.
		st.Phase = PhaseLockedMaxAttempt
		st.Locked = true
		out.State = st
		m.lock(&out, now)

	default:
		st.Phase = PhaseRetryAllowed
		out.Answer = m.eval.PruneWrong(answer, res.WrongUnits)
		if st.HintsRevealed < m.cfg.HintCount {
			out.Effects = append(out.Effects, RevealHint{Index: st.HintsRevealed})
			st.HintsRevealed++
		}
		out.State = st
	}

	return out
}

// Reset begins a fresh pass after "try again": per-pass counters start over
// so each learning pass is scored independently, while Resets accumulates for
// cross-pass analytics.
func (m *Machine) Reset(st AttemptState, now time.Time) AttemptState {
	return AttemptState{
		Phase:     PhaseIdle,
		Resets:    st.Resets + 1,
		StartedAt: now,
	}
}

func (m *Machine) lock(out *Outcome, now time.Time) {
	st := out.State
	res := out.Result
	out.Score = scoring.Final(
		res.FullyCorrect, res.CorrectCount, res.TotalCount,
		st.AttemptsUsed, st.HintsRevealed,
		elapsedSeconds(st.StartedAt, now),
	)
	rec := telemetry.Record(
		st.StartedAt, now,
		st.AttemptsUsed, st.HintsRevealed, st.Resets,
		out.Answer, m.content.Kind,
		res.CorrectCount, res.TotalCount,
	)
	out.Effects = append(out.Effects, EmitTelemetry{Score: out.Score, Record: rec})
}

func classify(res evaluator.Result) Feedback {
	switch {
	case res.FullyCorrect:
		return FeedbackCorrect
	case res.Attempted == 0:
		return FeedbackIncomplete
	case len(res.WrongUnits) > 0:
		return FeedbackWrong
	default:
		return FeedbackPartial
	}
}

func elapsedSeconds(from, to time.Time) int {
	s := int(to.Sub(from).Seconds())
	if s < 0 {
		return 0
	}
	return s
}
