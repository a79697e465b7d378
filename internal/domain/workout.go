package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visibility controls who may see a workout.
type Visibility string

const (
	VisibilityPrivate      Visibility = "private"
	VisibilityCloseFriends Visibility = "close_friends"
	VisibilityPublic       Visibility = "public"
)

// WorkoutStatus type for the workout lifecycle.
type WorkoutStatus string

const (
	StatusPlanned   WorkoutStatus = "planned"   // timestamp was in the future when set
	StatusCompleted WorkoutStatus = "completed" // logged, or auto-completed by the scheduler
)

// ExerciseSet is one strength entry inside a workout.
//
// SetNumber carries the extractor's "sets" count verbatim: a single entry
// with SetNumber=3 means three straight sets, while three separate entries
// form a pyramid. The consuming UI infers intent from the entry count, so
// no discriminator is stored.
type ExerciseSet struct {
	ID           string  `bson:"id" json:"id"`
	ExerciseName string  `bson:"exerciseName" json:"exerciseName"`
	SetNumber    int     `bson:"setNumber" json:"setNumber"`
	Reps         int     `bson:"reps" json:"reps"`
	Weight       float64 `bson:"weight" json:"weight"`
	WeightUnit   string  `bson:"weightUnit" json:"weightUnit"` // e.g. "kg", "lbs"
}

// CardioSession is one cardio entry inside a workout. Everything except
// the name is optional; pointers distinguish "absent" from zero.
type CardioSession struct {
	ID              string   `bson:"id" json:"id"`
	Name            string   `bson:"name" json:"name"`
	DurationMinutes *float64 `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	Distance        *float64 `bson:"distance,omitempty" json:"distance,omitempty"`
	DistanceUnit    *string  `bson:"distanceUnit,omitempty" json:"distanceUnit,omitempty"`
	Speed           *float64 `bson:"speed,omitempty" json:"speed,omitempty"`
	Pace            *string  `bson:"pace,omitempty" json:"pace,omitempty"`
	PaceUnit        *string  `bson:"paceUnit,omitempty" json:"paceUnit,omitempty"`
	Laps            *int     `bson:"laps,omitempty" json:"laps,omitempty"`
}

// Workout is one logged or planned session. CreatedAt doubles as the
// scheduled timestamp for planned workouts. Child sets and cardio sessions
// are embedded so they live and die with the parent document.
type Workout struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	WorkoutType    string             `bson:"workoutType,omitempty" json:"workoutType,omitempty"`
	Visibility     Visibility         `bson:"visibility" json:"visibility"`
	Status         WorkoutStatus      `bson:"status" json:"status"`
	Sets           []ExerciseSet      `bson:"sets,omitempty" json:"sets"`
	CardioSessions []CardioSession    `bson:"cardioSessions,omitempty" json:"cardioSessions"`
}

// SetPatch is one incoming exercise-set row in a workout update. A nil ID
// is a creation request; a non-nil ID targets an existing set.
type SetPatch struct {
	ID           *string `json:"id"`
	ExerciseName string  `json:"exerciseName" binding:"required"`
	SetNumber    int     `json:"setNumber"`
	Reps         int     `json:"reps"`
	Weight       float64 `json:"weight"`
	WeightUnit   string  `json:"weightUnit"`
}

// CardioPatch is one incoming cardio row in a workout update; same
// identity convention as SetPatch.
type CardioPatch struct {
	ID              *string  `json:"id"`
	Name            string   `json:"name" binding:"required"`
	DurationMinutes *float64 `json:"durationMinutes"`
	Distance        *float64 `json:"distance"`
	DistanceUnit    *string  `json:"distanceUnit"`
	Speed           *float64 `json:"speed"`
	Pace            *string  `json:"pace"`
	PaceUnit        *string  `json:"paceUnit"`
	Laps            *int     `json:"laps"`
}

// WorkoutPatch is a sparse workout update. Nil scalar fields are left
// untouched. A nil Sets/CardioSessions slice leaves the children alone;
// a non-nil slice (even empty) is a full replace-by-diff instruction.
type WorkoutPatch struct {
	Notes          *string        `json:"notes"`
	WorkoutType    *string        `json:"workoutType"`
	Status         *WorkoutStatus `json:"status"`
	Visibility     *Visibility    `json:"visibility"`
	CreatedAt      *time.Time     `json:"createdAt"`
	Sets           []SetPatch     `json:"sets"`
	CardioSessions []CardioPatch  `json:"cardioSessions"`
}
