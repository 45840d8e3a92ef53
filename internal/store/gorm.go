package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/LeartBytyqi1/my-fit-companion/internal/models"
)

// GormStore handles relational database operations through GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the relational store. A postgres:// (or postgresql://)
// URL connects to PostgreSQL; any other non-empty value is used as a SQLite
// file path. Empty defaults to "./data/fitness.db".
func NewGormStore(ctx context.Context, databaseURL string) (*GormStore, error) {
	var dialector gorm.Dialector

	switch {
	case strings.HasPrefix(databaseURL, "postgres://"),
		strings.HasPrefix(databaseURL, "postgresql://"):
		dialector = postgres.Open(databaseURL)
	default:
		dbPath := databaseURL
		if dbPath == "" {
			dbPath = "./data/fitness.db"
		}
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(dbPath + "?_journal_mode=WAL&_foreign_keys=on")
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	store := &GormStore{db: db}
	if err := store.Ping(ctx); err != nil {
		return nil, err
	}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

// NewGormStoreFromDB wraps an existing gorm.DB. Used by tests with an
// in-memory SQLite database.
func NewGormStoreFromDB(db *gorm.DB) (*GormStore, error) {
	store := &GormStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *GormStore) migrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Workout{},
		&models.WorkoutSession{},
		&models.Goal{},
		&models.ProgressEntry{},
	)
}

// Close closes the underlying database connection.
func (s *GormStore) Close() {
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// Ping checks the database connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CreateUser inserts a new user record.
func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves a user by ID. Returns (nil, nil) when not found.
func (s *GormStore) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email. Returns (nil, nil) when not found.
func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CountUsers returns the number of registered users.
func (s *GormStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// CreateWorkout inserts a new workout record.
func (s *GormStore) CreateWorkout(ctx context.Context, workout *models.Workout) error {
	return s.db.WithContext(ctx).Create(workout).Error
}

// GetWorkout retrieves a workout by ID. Returns (nil, nil) when not found.
func (s *GormStore) GetWorkout(ctx context.Context, id uint) (*models.Workout, error) {
	var workout models.Workout
	err := s.db.WithContext(ctx).First(&workout, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

// ListWorkouts returns all workouts, newest first, with their authors.
func (s *GormStore) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	var workouts []models.Workout
	err := s.db.WithContext(ctx).
		Preload("CreatedBy").
		Order("created_at DESC").
		Find(&workouts).Error
	return workouts, err
}

// CountWorkouts returns the number of workouts.
func (s *GormStore) CountWorkouts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Workout{}).Count(&count).Error
	return count, err
}

// CreateGoal inserts a new goal record.
func (s *GormStore) CreateGoal(ctx context.Context, goal *models.Goal) error {
	return s.db.WithContext(ctx).Create(goal).Error
}

// GetGoal retrieves a goal owned by userID. Returns (nil, nil) when not found.
func (s *GormStore) GetGoal(ctx context.Context, userID, id uint) (*models.Goal, error) {
	var goal models.Goal
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&goal, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// ListGoals returns a user's goals, incomplete first then newest first,
// optionally filtered by completion state and type.
func (s *GormStore) ListGoals(ctx context.Context, userID uint, completed *bool, goalType string) ([]models.Goal, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if completed != nil {
		q = q.Where("completed = ?", *completed)
	}
	if goalType != "" {
		q = q.Where("type = ?", goalType)
	}

	var goals []models.Goal
	err := q.Order("completed ASC").Order("created_at DESC").Find(&goals).Error
	return goals, err
}

// UpdateGoal saves changes to an existing goal.
func (s *GormStore) UpdateGoal(ctx context.Context, goal *models.Goal) error {
	return s.db.WithContext(ctx).Save(goal).Error
}

// CreateProgressEntry inserts a new progress entry.
func (s *GormStore) CreateProgressEntry(ctx context.Context, entry *models.ProgressEntry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// ListProgressEntries returns a user's progress entries newest first,
// optionally bounded by a date range.
func (s *GormStore) ListProgressEntries(ctx context.Context, userID uint, from, to *time.Time, limit int) ([]models.ProgressEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}

	var entries []models.ProgressEntry
	err := q.Order("date DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// CreateSession inserts a new workout session.
func (s *GormStore) CreateSession(ctx context.Context, session *models.WorkoutSession) error {
	return s.db.WithContext(ctx).Create(session).Error
}

// GetSession retrieves a session owned by userID. Returns (nil, nil) when not found.
func (s *GormStore) GetSession(ctx context.Context, userID, id uint) (*models.WorkoutSession, error) {
	var session models.WorkoutSession
	err := s.db.WithContext(ctx).
		Preload("Workout").
		Where("user_id = ?", userID).
		First(&session, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetActiveSession returns the user's session with no end time, or (nil, nil).
func (s *GormStore) GetActiveSession(ctx context.Context, userID uint) (*models.WorkoutSession, error) {
	var session models.WorkoutSession
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND end_time IS NULL", userID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateSession saves changes to an existing session.
func (s *GormStore) UpdateSession(ctx context.Context, session *models.WorkoutSession) error {
	return s.db.WithContext(ctx).Save(session).Error
}

// ListSessions returns a user's sessions newest first, optionally filtered
// by workout.
func (s *GormStore) ListSessions(ctx context.Context, userID uint, workoutID uint, limit, offset int) ([]models.WorkoutSession, error) {
	if limit <= 0 {
		limit = 20
	}

	q := s.db.WithContext(ctx).
		Preload("Workout").
		Where("user_id = ?", userID)
	if workoutID != 0 {
		q = q.Where("workout_id = ?", workoutID)
	}

	var sessions []models.WorkoutSession
	err := q.Order("start_time DESC").Limit(limit).Offset(offset).Find(&sessions).Error
	return sessions, err
}
