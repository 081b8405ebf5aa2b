package storage

import (
	"context"
	"errors"

	"github.com/edustack/edu-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// Store captures persistence operations needed by handlers.
type Store interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)

	CreateCourse(ctx context.Context, course models.Course) (models.Course, error)
	GetCourse(ctx context.Context, id int64) (models.Course, error)
	ListCourses(ctx context.Context) ([]models.Course, error)

	// ListCoursesWithEnrollment returns the whole catalog together with the
	// set of course IDs the user is enrolled in.
	ListCoursesWithEnrollment(ctx context.Context, userID int64) ([]models.Course, map[int64]bool, error)
	ListUserCourses(ctx context.Context, userID int64) ([]models.Course, error)

	// Enroll is idempotent: enrolling twice leaves a single record.
	// Returns ErrNotFound when the course does not exist.
	Enroll(ctx context.Context, userID, courseID int64) error
	// Unenroll returns ErrNotFound when the course does not exist and is a
	// no-op when the user is not enrolled.
	Unenroll(ctx context.Context, userID, courseID int64) error
}
