// Package profile maintains the persistent per-learner mastery profile as an
// incremental reducer over telemetry records. Every fold depends only on the
// previous aggregate and the new sample, never on raw history, so memory is
// bounded and the aggregator can run over an event stream.
package profile

import "time"

// MediaKind tags the presentation medium of an exercise for preference
// tracking.
type MediaKind string

const (
	MediaText     MediaKind = "text"
	MediaVideo    MediaKind = "video"
	MediaGamified MediaKind = "gamified"
)

// Performance is the accuracy/speed section of the profile.
// GlobalAccuracyRate is recomputed from the two counters on every fold and
// never mutated independently.
type Performance struct {
	AverageResponseTimeSec  float64        `json:"average_response_time_sec"`
	GlobalAccuracyRate      float64        `json:"global_accuracy_rate"`
	ErrorRateByTopic        map[string]int `json:"error_rate_by_topic"`
	TotalQuestionsAttempted int            `json:"total_questions_attempted"`
	TotalCorrectAnswers     int            `json:"total_correct_answers"`
}

// Behavioral captures how the learner works, as running rates in [0, 1].
type Behavioral struct {
	HintDependencyScore float64         `json:"hint_dependency_score"`
	RetryPersistence    float64         `json:"retry_persistence"`
	MediaPreference     MediaPreference `json:"media_preference"`
}

// MediaPreference holds the running share of questions answered in each
// medium; the three fields sum to 1 once any question was folded.
type MediaPreference struct {
	Text     float64 `json:"text"`
	Video    float64 `json:"video"`
	Gamified float64 `json:"gamified"`
}

// Engagement tracks session-level activity. TotalSessions is incremented by
// the session layer, not by Fold.
type Engagement struct {
	TotalSessions int       `json:"total_sessions"`
	TotalTimeSec  int       `json:"total_time_sec"`
	LastActiveAt  time.Time `json:"last_active_at"`
}

// Profile is the long-lived mastery document. Created once per learner and
// updated after every terminal attempt.
type Profile struct {
	Performance Performance `json:"performance"`
	Behavioral  Behavioral  `json:"behavioral"`
	Engagement  Engagement  `json:"engagement"`
}

// New returns an empty profile.
func New() Profile {
	return Profile{
		Performance: Performance{ErrorRateByTopic: make(map[string]int)},
	}
}

// Sample is what one fold consumes: the telemetry of a terminal attempt plus
// the correctness verdict and content tags the core emitted alongside it.
type Sample struct {
	TimeSeconds int
	Attempts    int
	HintsUsed   int
	WasCorrect  bool
	Topic       string
	Media       MediaKind
	At          time.Time
}

// Fold incorporates one sample into the profile and returns the updated
// copy. The input profile is not mutated. Invariants after every fold:
// TotalCorrectAnswers <= TotalQuestionsAttempted, and GlobalAccuracyRate is
// exactly their quotient (0 when nothing was attempted).
func Fold(p Profile, s Sample) Profile {
	n := p.Performance.TotalQuestionsAttempted

	p.Performance.AverageResponseTimeSec = rollMean(p.Performance.AverageResponseTimeSec, n, float64(s.TimeSeconds))
	p.Performance.TotalQuestionsAttempted = n + 1
	if s.WasCorrect {
		p.Performance.TotalCorrectAnswers++
	}
	p.Performance.GlobalAccuracyRate = float64(p.Performance.TotalCorrectAnswers) /
		float64(p.Performance.TotalQuestionsAttempted)

	topics := make(map[string]int, len(p.Performance.ErrorRateByTopic)+1)
	for k, v := range p.Performance.ErrorRateByTopic {
		topics[k] = v
	}
	if !s.WasCorrect && s.Topic != "" {
		topics[s.Topic]++
	}
	p.Performance.ErrorRateByTopic = topics

	p.Behavioral.HintDependencyScore = rollMean(p.Behavioral.HintDependencyScore, n, indicator(s.HintsUsed > 0))
	p.Behavioral.RetryPersistence = rollMean(p.Behavioral.RetryPersistence, n, indicator(s.Attempts > 1))
	p.Behavioral.MediaPreference = MediaPreference{
		Text:     rollMean(p.Behavioral.MediaPreference.Text, n, indicator(s.Media == MediaText)),
		Video:    rollMean(p.Behavioral.MediaPreference.Video, n, indicator(s.Media == MediaVideo)),
		Gamified: rollMean(p.Behavioral.MediaPreference.Gamified, n, indicator(s.Media == MediaGamified)),
	}

	p.Engagement.TotalTimeSec += s.TimeSeconds
	if s.At.After(p.Engagement.LastActiveAt) {
		p.Engagement.LastActiveAt = s.At
	}

	return p
}

// rollMean is the classic incremental mean: (old*n + sample) / (n+1).
func rollMean(old float64, n int, sample float64) float64 {
	return (old*float64(n) + sample) / float64(n+1)
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
