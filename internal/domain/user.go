package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MetricField identifies one of the history-tracked body metrics on a user.
type MetricField string

const (
	MetricWeight        MetricField = "weight"
	MetricFatPercentage MetricField = "fat_percentage"
	MetricBench1RM      MetricField = "bench_1rm"
	MetricSquat1RM      MetricField = "squat_1rm"
	MetricDeadlift1RM   MetricField = "deadlift_1rm"
)

// TrackedMetricFields lists every metric that is kept as an append-only history.
var TrackedMetricFields = []MetricField{
	MetricWeight,
	MetricFatPercentage,
	MetricBench1RM,
	MetricSquat1RM,
	MetricDeadlift1RM,
}

// IsTrackedMetric reports whether field is one of the five history-tracked metrics.
func IsTrackedMetric(field MetricField) bool {
	for _, f := range TrackedMetricFields {
		if f == field {
			return true
		}
	}
	return false
}

// MetricEntry is one append-only history point for a tracked metric.
// Entries are never edited or removed; insertion order is chronological.
type MetricEntry struct {
	Date  string  `bson:"date" json:"date"` // ISO date, yyyy-mm-dd
	Value float64 `bson:"value" json:"value"`
}

// User represents an account plus its profile and metric histories.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"` // unique
	PasswordHash string             `bson:"passwordHash" json:"-"`
	FirstName    string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName     string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	IsOnboarded  bool               `bson:"isOnboarded" json:"isOnboarded"`
	PushToken    string             `bson:"pushToken,omitempty" json:"-"`
	AvatarKey    string             `bson:"avatarKey,omitempty" json:"-"` // object key in S3, not the URL

	// Append-only metric histories. Field names match MetricField values.
	Weight        []MetricEntry `bson:"weight,omitempty" json:"weight,omitempty"`
	FatPercentage []MetricEntry `bson:"fat_percentage,omitempty" json:"fatPercentage,omitempty"`
	Bench1RM      []MetricEntry `bson:"bench_1rm,omitempty" json:"bench1rm,omitempty"`
	Squat1RM      []MetricEntry `bson:"squat_1rm,omitempty" json:"squat1rm,omitempty"`
	Deadlift1RM   []MetricEntry `bson:"deadlift_1rm,omitempty" json:"deadlift1rm,omitempty"`

	// Social interaction tallies, incremented when buddies nudge/spot this user.
	NudgeCount int `bson:"nudgeCount" json:"nudgeCount"`
	SpotCount  int `bson:"spotCount" json:"spotCount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ProfilePatch is a sparse profile update; nil fields are left untouched.
// History-tracked metrics are deliberately absent here: those only ever
// grow through the append-only metric store.
type ProfilePatch struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	PushToken *string `json:"pushToken,omitempty"`
}
