// Command seed populates the relational store with demo accounts and
// workouts for local development.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/LeartBytyqi1/my-fit-companion/internal/auth"
	"github.com/LeartBytyqi1/my-fit-companion/internal/config"
	"github.com/LeartBytyqi1/my-fit-companion/internal/models"
	"github.com/LeartBytyqi1/my-fit-companion/internal/store"
)

func main() {
	cfg := config.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()

	ctx := context.Background()

	db, err := store.NewGormStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	logger.Info().Msg("seeding database...")

	hash, err := auth.HashPassword("password123")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to hash seed password")
	}

	admin := &models.User{
		FirstName:    "Ada",
		LastName:     "Admin",
		Email:        "admin@fitcompanion.com",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := createUserIfMissing(ctx, db, admin, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed admin")
	}

	heightCoach, weightCoach := 165, 60.0
	coach := &models.User{
		FirstName:    "Sarah",
		LastName:     "Coach",
		Email:        "coach@fitcompanion.com",
		PasswordHash: hash,
		Role:         models.RoleCoach,
		HeightCm:     &heightCoach,
		WeightKg:     &weightCoach,
	}
	if err := createUserIfMissing(ctx, db, coach, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed coach")
	}

	heightMember, weightMember, goalWeight := 180, 75.0, 70.0
	member := &models.User{
		FirstName:    "John",
		LastName:     "User",
		Email:        "user@fitcompanion.com",
		PasswordHash: hash,
		Role:         models.RoleMember,
		HeightCm:     &heightMember,
		WeightKg:     &weightMember,
		GoalWeightKg: &goalWeight,
	}
	if err := createUserIfMissing(ctx, db, member, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed member")
	}

	existing, err := db.CountWorkouts(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to count workouts")
	}
	if existing > 0 {
		logger.Info().Int64("workouts", existing).Msg("workouts already seeded")
		return
	}

	workouts := []models.Workout{
		{
			Title:       "Full Body Beginner",
			Description: "Push-ups, squats and planks for a first week of training.",
			Difficulty:  "BEGINNER",
			CreatedByID: coach.ID,
		},
		{
			Title:       "Strength Foundations",
			Description: "Deadlifts and compound lifts with a barbell.",
			Difficulty:  "INTERMEDIATE",
			CreatedByID: coach.ID,
		},
	}
	for i := range workouts {
		if err := db.CreateWorkout(ctx, &workouts[i]); err != nil {
			logger.Fatal().Err(err).Str("title", workouts[i].Title).Msg("failed to seed workout")
		}
	}

	logger.Info().
		Int("workouts", len(workouts)).
		Msg("seed completed; demo password is password123")
}

func createUserIfMissing(ctx context.Context, db store.DataStore, user *models.User, logger zerolog.Logger) error {
	existing, err := db.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		*user = *existing
		logger.Info().Str("email", user.Email).Msg("user already seeded")
		return nil
	}
	return db.CreateUser(ctx, user)
}
