package store

import (
	"context"
	"time"

	"github.com/LeartBytyqi1/my-fit-companion/internal/models"
)

// DataStore defines the interface for persistent storage of users, workouts,
// goals, progress entries and workout sessions. GormStore implements it for
// both SQLite and PostgreSQL.
type DataStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)

	// Workout operations
	CreateWorkout(ctx context.Context, workout *models.Workout) error
	GetWorkout(ctx context.Context, id uint) (*models.Workout, error)
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	CountWorkouts(ctx context.Context) (int64, error)

	// Goal operations
	CreateGoal(ctx context.Context, goal *models.Goal) error
	GetGoal(ctx context.Context, userID, id uint) (*models.Goal, error)
	ListGoals(ctx context.Context, userID uint, completed *bool, goalType string) ([]models.Goal, error)
	UpdateGoal(ctx context.Context, goal *models.Goal) error

	// Progress operations
	CreateProgressEntry(ctx context.Context, entry *models.ProgressEntry) error
	ListProgressEntries(ctx context.Context, userID uint, from, to *time.Time, limit int) ([]models.ProgressEntry, error)

	// Workout session operations
	CreateSession(ctx context.Context, session *models.WorkoutSession) error
	GetSession(ctx context.Context, userID, id uint) (*models.WorkoutSession, error)
	GetActiveSession(ctx context.Context, userID uint) (*models.WorkoutSession, error)
	UpdateSession(ctx context.Context, session *models.WorkoutSession) error
	ListSessions(ctx context.Context, userID uint, workoutID uint, limit, offset int) ([]models.WorkoutSession, error)
}
