package models

import "time"

// Goal types accepted by the goals API.
var GoalTypes = []string{
	"WEIGHT_LOSS", "WEIGHT_GAIN", "MUSCLE_GAIN",
	"STRENGTH", "ENDURANCE", "BODY_FAT", "CUSTOM",
}

// Goal is a user-defined fitness target.
type Goal struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	UserID       uint       `gorm:"index;not null" json:"userId"`
	Type         string     `gorm:"size:20;not null" json:"type"`
	Title        string     `gorm:"size:200;not null" json:"title"`
	Description  string     `gorm:"size:2000" json:"description,omitempty"`
	TargetValue  *float64   `json:"targetValue,omitempty"`
	CurrentValue *float64   `json:"currentValue,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Completed    bool       `gorm:"not null;default:false" json:"completed"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// TableName returns the table name for Goal model.
func (Goal) TableName() string {
	return "goals"
}

// ValidGoalType reports whether t is one of the accepted goal types.
func ValidGoalType(t string) bool {
	for _, gt := range GoalTypes {
		if gt == t {
			return true
		}
	}
	return false
}
