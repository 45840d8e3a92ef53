package models

import (
	"time"

	"gorm.io/gorm"
)

// Role controls access to coach/admin-only routes.
const (
	RoleMember = "MEMBER"
	RoleCoach  = "COACH"
	RoleAdmin  = "ADMIN"
)

// User represents a registered account.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	FirstName    string         `gorm:"size:100;not null" json:"firstName"`
	LastName     string         `gorm:"size:100;not null" json:"lastName"`
	Email        string         `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"size:100;not null" json:"-"`
	Role         string         `gorm:"size:20;not null;default:MEMBER" json:"role"`
	HeightCm     *int           `json:"heightCm,omitempty"`
	WeightKg     *float64       `json:"weightKg,omitempty"`
	BodyFatPct   *float64       `json:"bodyFatPct,omitempty"`
	GoalWeightKg *float64       `json:"goalWeightKg,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// DisplayName is the name shown to chat peers.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// TableName returns the table name for User model.
func (User) TableName() string {
	return "users"
}
