package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/edustack/edu-be/internal/auth"
	"github.com/edustack/edu-be/internal/models"
	"github.com/edustack/edu-be/internal/storage"
)

var sampleUsers = []struct {
	email    string
	password string
	name     string
}{
	{"student@edu.example", "changeme123", "Sample Student"},
	{"teacher@edu.example", "changeme123", "Sample Teacher"},
}

var sampleCourses = []models.Course{
	{Name: "Introduction to Programming", Description: "Core programming concepts for newcomers, from variables to your first working programs.", Hours: 12, Level: models.LevelBeginner},
	{Name: "Web Design", Description: "Building modern web interfaces: UX/UI principles and the tools of the trade.", Hours: 8, Level: models.LevelIntermediate},
	{Name: "Advanced JavaScript", Description: "Modern JavaScript in depth: asynchronous programming, patterns, and best practice.", Hours: 15, Level: models.LevelAdvanced},
	{Name: "Algorithm Fundamentals", Description: "Essential algorithms and data structures, with interview preparation in mind.", Hours: 10, Level: models.LevelIntermediate},
	{Name: "Databases for Beginners", Description: "Relational databases from the ground up: SQL queries and schema design.", Hours: 6, Level: models.LevelBeginner},
	{Name: "Machine Learning", Description: "An introduction to machine learning: regression, classification, and neural networks.", Hours: 20, Level: models.LevelAdvanced},
}

// Seed inserts the demo accounts and catalog entries, skipping anything
// already present. Safe to run repeatedly.
func (s *Store) Seed(ctx context.Context) error {
	for _, u := range sampleUsers {
		_, err := s.GetUserByEmail(ctx, u.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("seed: check user %s: %w", u.email, err)
		}

		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return fmt.Errorf("seed: hash password: %w", err)
		}
		if _, err := s.CreateUser(ctx, models.User{Email: u.email, Name: u.name, PasswordHash: hash}); err != nil {
			return fmt.Errorf("seed: create user %s: %w", u.email, err)
		}
		log.Printf("seed: created user %s", u.email)
	}

	for _, course := range sampleCourses {
		exists, err := s.courseNameExists(ctx, course.Name)
		if err != nil {
			return fmt.Errorf("seed: check course %q: %w", course.Name, err)
		}
		if exists {
			continue
		}
		if _, err := s.CreateCourse(ctx, course); err != nil {
			return fmt.Errorf("seed: create course %q: %w", course.Name, err)
		}
		log.Printf("seed: created course %q", course.Name)
	}

	return nil
}

func (s *Store) courseNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM courses WHERE name = $1);`
	err := s.pool.QueryRow(ctx, query, name).Scan(&exists)
	return exists, err
}
