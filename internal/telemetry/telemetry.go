// Package telemetry assembles the per-attempt record handed to the caller at
// terminal lock. The core emits the record and retains nothing; persistence
// and retry belong to the collaborator that receives it.
package telemetry

import (
	"encoding/json"
	"time"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

// Data is the structured record of one completed exercise pass. LastAnswer is
// the final working-answer snapshot, verbatim and opaque, kept for downstream
// audit and replay. Immutable once produced.
type Data struct {
	TimeSeconds  int             `json:"time_seconds"`
	Attempts     int             `json:"attempts"`
	HintsUsed    int             `json:"hints_used"`
	LastAnswer   json.RawMessage `json:"last_answer"`
	Resets       int             `json:"resets,omitempty"`
	Variant      exercise.Type   `json:"variant"`
	CorrectUnits int             `json:"correct_units"`
	TotalUnits   int             `json:"total_units"`
	RecordedAt   time.Time       `json:"recorded_at"`
}

// Record builds the telemetry for an attempt that just locked. startedAt is
// the state-machine creation time; now is the lock time. Elapsed time never
// goes negative even if the clock source misbehaves.
func Record(startedAt, now time.Time, attempts, hintsUsed, resets int, lastAnswer json.RawMessage, variant exercise.Type, correctUnits, totalUnits int) Data {
	elapsed := int(now.Sub(startedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	if attempts < 1 {
		attempts = 1
	}
	snapshot := make(json.RawMessage, len(lastAnswer))
	copy(snapshot, lastAnswer)
	return Data{
		TimeSeconds:  elapsed,
		Attempts:     attempts,
		HintsUsed:    hintsUsed,
		LastAnswer:   snapshot,
		Resets:       resets,
		Variant:      variant,
		CorrectUnits: correctUnits,
		TotalUnits:   totalUnits,
		RecordedAt:   now,
	}
}
