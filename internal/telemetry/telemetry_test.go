package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/exercise"
)

func TestRecord(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(95 * time.Second)
	answer := json.RawMessage(`{"blanks":{"b1":"sun"}}`)

	rec := Record(start, end, 2, 1, 0, answer, exercise.Cloze, 1, 2)

	assert.Equal(t, 95, rec.TimeSeconds)
	assert.Equal(t, 2, rec.Attempts)
	assert.Equal(t, 1, rec.HintsUsed)
	assert.Equal(t, exercise.Cloze, rec.Variant)
	assert.Equal(t, 1, rec.CorrectUnits)
	assert.Equal(t, 2, rec.TotalUnits)
	assert.Equal(t, end, rec.RecordedAt)
	assert.JSONEq(t, string(answer), string(rec.LastAnswer))
}

func TestRecord_SnapshotIsACopy(t *testing.T) {
	now := time.Now()
	answer := json.RawMessage(`{"order":["a","b"]}`)

	rec := Record(now, now, 1, 0, 0, answer, exercise.Ordering, 0, 1)
	answer[2] = 'X'

	assert.JSONEq(t, `{"order":["a","b"]}`, string(rec.LastAnswer))
}

func TestRecord_ClampsBadInputs(t *testing.T) {
	now := time.Now()

	rec := Record(now.Add(time.Minute), now, 0, 0, 0, nil, exercise.RatingScale, 0, 1)

	assert.Zero(t, rec.TimeSeconds)
	assert.Equal(t, 1, rec.Attempts)
}
