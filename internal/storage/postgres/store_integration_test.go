package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/edustack/edu-be/internal/models"
	"github.com/edustack/edu-be/internal/storage"
)

// TestStoreIntegration exercises users, courses, and enrollment against a
// live Postgres instance.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_STORE_INTEGRATION") != "true" {
		t.Skip("set RUN_STORE_INTEGRATION=true to run this integration test")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := NewStore(ctx, dbURL, 3, time.Second)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	email := fmt.Sprintf("storetest_%d@example.com", time.Now().UnixNano())
	user, err := store.CreateUser(ctx, models.User{Email: email, Name: "Store Test", PasswordHash: "$argon2id$stub"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := store.CreateUser(ctx, models.User{Email: email, Name: "Dup", PasswordHash: "x"}); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate email: want ErrAlreadyExists, got %v", err)
	}

	fetched, err := store.GetUserByEmail(ctx, email)
	if err != nil || fetched.ID != user.ID {
		t.Fatalf("get by email: user %+v err %v", fetched, err)
	}

	course, err := store.CreateCourse(ctx, models.Course{
		Name:  fmt.Sprintf("Integration Course %d", time.Now().UnixNano()),
		Hours: 4,
		Level: models.LevelBeginner,
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}

	// Enrolling twice leaves exactly one record.
	if err := store.Enroll(ctx, user.ID, course.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := store.Enroll(ctx, user.ID, course.ID); err != nil {
		t.Fatalf("second enroll: %v", err)
	}
	mine, err := store.ListUserCourses(ctx, user.ID)
	if err != nil {
		t.Fatalf("list user courses: %v", err)
	}
	count := 0
	for _, c := range mine {
		if c.ID == course.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("enrollment count = %d, want 1", count)
	}

	_, enrolled, err := store.ListCoursesWithEnrollment(ctx, user.ID)
	if err != nil {
		t.Fatalf("list with enrollment: %v", err)
	}
	if !enrolled[course.ID] {
		t.Fatalf("course %d not marked enrolled", course.ID)
	}

	// Leaving twice: second call is a no-op, not an error.
	if err := store.Unenroll(ctx, user.ID, course.ID); err != nil {
		t.Fatalf("unenroll: %v", err)
	}
	if err := store.Unenroll(ctx, user.ID, course.ID); err != nil {
		t.Fatalf("second unenroll: %v", err)
	}

	if err := store.Enroll(ctx, user.ID, 0); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("enroll in missing course: want ErrNotFound, got %v", err)
	}
}
