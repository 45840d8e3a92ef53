package models

import "time"

// ProgressEntry is a dated body-measurement snapshot.
type ProgressEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Date      time.Time `gorm:"index;not null" json:"date"`
	WeightKg  *float64  `json:"weightKg,omitempty"`
	BodyFat   *float64  `json:"bodyFat,omitempty"`
	MuscleKg  *float64  `json:"muscleKg,omitempty"`
	Notes     string    `gorm:"size:2000" json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the table name for ProgressEntry model.
func (ProgressEntry) TableName() string {
	return "progress_entries"
}
