package dto

import "github.com/edustack/edu-be/internal/models"

// CourseWithEnrollment annotates a catalog entry with whether the
// requesting user is enrolled in it.
type CourseWithEnrollment struct {
	models.Course
	IsEnrolled bool `json:"is_enrolled"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
