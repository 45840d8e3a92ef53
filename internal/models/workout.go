package models

import "time"

// Workout is a coach-authored training plan.
type Workout struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"size:2000" json:"description"`
	Difficulty  string    `gorm:"size:20" json:"difficulty,omitempty"`
	CreatedByID uint      `gorm:"index;not null" json:"createdById"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName returns the table name for Workout model.
func (Workout) TableName() string {
	return "workouts"
}

// WorkoutSession tracks one user performing one workout. A session with a
// nil EndTime is active; at most one active session per user is allowed.
type WorkoutSession struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	UserID         uint       `gorm:"index;not null" json:"userId"`
	WorkoutID      uint       `gorm:"index;not null" json:"workoutId"`
	Workout        *Workout   `gorm:"foreignKey:WorkoutID" json:"workout,omitempty"`
	StartTime      time.Time  `gorm:"not null" json:"startTime"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	CaloriesBurned *int       `json:"caloriesBurned,omitempty"`
	Notes          string     `gorm:"size:2000" json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Active reports whether the session has not been ended yet.
func (s *WorkoutSession) Active() bool {
	return s.EndTime == nil
}

// TableName returns the table name for WorkoutSession model.
func (WorkoutSession) TableName() string {
	return "workout_sessions"
}
