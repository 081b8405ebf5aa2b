package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/edustack/edu-be/internal/models"
	"github.com/edustack/edu-be/internal/storage"
)

// CreateCourse inserts a new catalog entry.
func (s *Store) CreateCourse(ctx context.Context, course models.Course) (models.Course, error) {
	const query = `
	INSERT INTO courses (name, description, hours, level)
	VALUES ($1, $2, $3, $4)
	RETURNING id, name, description, hours, level, created_at;
	`
	row := s.pool.QueryRow(ctx, query, course.Name, course.Description, course.Hours, course.Level)
	return scanCourse(row)
}

// GetCourse fetches a course by primary key.
func (s *Store) GetCourse(ctx context.Context, id int64) (models.Course, error) {
	const query = `
	SELECT id, name, description, hours, level, created_at
	FROM courses
	WHERE id = $1;
	`
	return scanCourse(s.pool.QueryRow(ctx, query, id))
}

// ListCourses returns the full catalog ordered by id.
func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	const query = `
	SELECT id, name, description, hours, level, created_at
	FROM courses
	ORDER BY id;
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCourses(rows)
}

// ListCoursesWithEnrollment returns the catalog plus the user's enrolled set.
func (s *Store) ListCoursesWithEnrollment(ctx context.Context, userID int64) ([]models.Course, map[int64]bool, error) {
	courses, err := s.ListCourses(ctx)
	if err != nil {
		return nil, nil, err
	}

	const query = `SELECT course_id FROM user_courses WHERE user_id = $1;`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	enrolled := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, nil, err
		}
		enrolled[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return courses, enrolled, nil
}

// ListUserCourses returns only the courses the user is enrolled in.
func (s *Store) ListUserCourses(ctx context.Context, userID int64) ([]models.Course, error) {
	const query = `
	SELECT c.id, c.name, c.description, c.hours, c.level, c.created_at
	FROM courses c
	JOIN user_courses uc ON uc.course_id = c.id
	WHERE uc.user_id = $1
	ORDER BY c.id;
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCourses(rows)
}

// Enroll records membership. ON CONFLICT DO NOTHING keeps the operation
// idempotent at the store, so a concurrent double-enroll cannot race in a
// duplicate pair.
func (s *Store) Enroll(ctx context.Context, userID, courseID int64) error {
	if err := s.courseExists(ctx, courseID); err != nil {
		return err
	}
	const query = `
	INSERT INTO user_courses (user_id, course_id)
	VALUES ($1, $2)
	ON CONFLICT DO NOTHING;
	`
	_, err := s.pool.Exec(ctx, query, userID, courseID)
	return err
}

// Unenroll removes membership; removing a non-existent enrollment is a
// no-op, but the course itself must exist.
func (s *Store) Unenroll(ctx context.Context, userID, courseID int64) error {
	if err := s.courseExists(ctx, courseID); err != nil {
		return err
	}
	const query = `DELETE FROM user_courses WHERE user_id = $1 AND course_id = $2;`
	_, err := s.pool.Exec(ctx, query, userID, courseID)
	return err
}

func (s *Store) courseExists(ctx context.Context, courseID int64) error {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1);`
	if err := s.pool.QueryRow(ctx, query, courseID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return storage.ErrNotFound
	}
	return nil
}

func scanCourse(row pgx.Row) (models.Course, error) {
	var course models.Course
	if err := row.Scan(&course.ID, &course.Name, &course.Description, &course.Hours, &course.Level, &course.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Course{}, storage.ErrNotFound
		}
		return models.Course{}, err
	}
	return course, nil
}

func collectCourses(rows pgx.Rows) ([]models.Course, error) {
	courses := []models.Course{}
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.Name, &course.Description, &course.Hours, &course.Level, &course.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}
