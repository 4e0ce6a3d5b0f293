package models

import "time"

// Checkin is the wellness log of one day. At most one per date is expected;
// the check happens before insert, there is no unique constraint.
type Checkin struct {
	ID              uint      `gorm:"primaryKey"`
	Date            time.Time `gorm:"type:date;index;not null"`
	SleepHours      *float64
	ExerciseMinutes *int
	WaterIntake     *int // ml
	MoodScore       *int // 1-10, not enforced
	Notes           string `gorm:"type:text"`
	CreatedAt       time.Time
}

func (Checkin) TableName() string { return "daily_checkin" }
