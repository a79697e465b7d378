package domain

import "time"

// LoggedSet is one strength entry as produced by the text extractor.
// Sets is the extractor's multiplier/ordinal; see ExerciseSet.SetNumber
// for how its meaning depends on the entry count.
type LoggedSet struct {
	ExerciseName string  `json:"exercise_name"`
	Sets         int     `json:"sets"`
	Reps         int     `json:"reps"`
	Weight       float64 `json:"weight"`
	WeightUnit   string  `json:"weight_unit"`
}

// LoggedCardio is one cardio entry as produced by the text extractor.
type LoggedCardio struct {
	ExerciseName    string   `json:"exercise_name"`
	DurationMinutes *float64 `json:"duration_minutes"`
	Distance        *float64 `json:"distance"`
	DistanceUnit    *string  `json:"distance_unit"`
	Speed           *float64 `json:"speed"`
	Pace            *string  `json:"pace"`
	PaceUnit        *string  `json:"pace_unit"`
	Laps            *int     `json:"laps"`
}

// StructuredLog is the trusted output of the AI extraction collaborator:
// one parsed activity report. The engine acts only on presence/absence of
// fields and never second-guesses the extraction.
type StructuredLog struct {
	Sets        []LoggedSet    `json:"sets"`
	Cardio      []LoggedCardio `json:"cardio"`
	Note        string         `json:"note"`
	WorkoutType string         `json:"workout_type"`
	Visibility  Visibility     `json:"visibility"`

	UpdatedWeight        *float64 `json:"updated_weight"`
	UpdatedFatPercentage *float64 `json:"updated_fat_percentage"`
	UpdatedBench1RM      *float64 `json:"updated_bench_1rm"`
	UpdatedSquat1RM      *float64 `json:"updated_squat_1rm"`
	UpdatedDeadlift1RM   *float64 `json:"updated_deadlift_1rm"`

	// ScheduledDate is set when the user asked to plan a workout for a
	// specific day ("schedule chest day for Friday"). Only the date part
	// is meaningful.
	ScheduledDate *time.Time `json:"scheduled_date"`

	// Comment is the extractor's reply to the user, passed through verbatim.
	Comment string `json:"comment"`
}

// HasEntries reports whether the log carries at least one set or cardio entry.
func (l *StructuredLog) HasEntries() bool {
	return len(l.Sets) > 0 || len(l.Cardio) > 0
}

// HasMetricUpdates reports whether any of the tracked metrics is present.
func (l *StructuredLog) HasMetricUpdates() bool {
	return l.UpdatedWeight != nil || l.UpdatedFatPercentage != nil ||
		l.UpdatedBench1RM != nil || l.UpdatedSquat1RM != nil || l.UpdatedDeadlift1RM != nil
}

// MetricUpdates returns the present metrics keyed by their tracked field.
func (l *StructuredLog) MetricUpdates() map[MetricField]float64 {
	updates := make(map[MetricField]float64)
	if l.UpdatedWeight != nil {
		updates[MetricWeight] = *l.UpdatedWeight
	}
	if l.UpdatedFatPercentage != nil {
		updates[MetricFatPercentage] = *l.UpdatedFatPercentage
	}
	if l.UpdatedBench1RM != nil {
		updates[MetricBench1RM] = *l.UpdatedBench1RM
	}
	if l.UpdatedSquat1RM != nil {
		updates[MetricSquat1RM] = *l.UpdatedSquat1RM
	}
	if l.UpdatedDeadlift1RM != nil {
		updates[MetricDeadlift1RM] = *l.UpdatedDeadlift1RM
	}
	return updates
}
