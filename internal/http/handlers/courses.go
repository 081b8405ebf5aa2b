package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/edustack/edu-be/internal/http/respond"
	"github.com/edustack/edu-be/internal/middleware"
	"github.com/edustack/edu-be/internal/models/dto"
	"github.com/edustack/edu-be/internal/storage"
)

// CoursesHandler serves the catalog and the caller's enrollments.
type CoursesHandler struct {
	store storage.Store
	guard *middleware.Guard
}

// NewCoursesHandler constructs the handler.
func NewCoursesHandler(store storage.Store, guard *middleware.Guard) *CoursesHandler {
	return &CoursesHandler{store: store, guard: guard}
}

// Register attaches catalog and enrollment routes to the mux.
func (h *CoursesHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /courses", h.guard.Wrap(h.handleCatalog))
	mux.HandleFunc("GET /users/me/courses", h.guard.Wrap(h.handleMyCourses))
	mux.HandleFunc("POST /users/me/courses/{id}", h.guard.Wrap(h.handleEnroll))
	mux.HandleFunc("DELETE /users/me/courses/{id}", h.guard.Wrap(h.handleLeave))
}

func (h *CoursesHandler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	courses, enrolled, err := h.store.ListCoursesWithEnrollment(r.Context(), user.ID)
	if err != nil {
		log.Printf("list courses: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list courses")
		return
	}

	out := make([]dto.CourseWithEnrollment, 0, len(courses))
	for _, course := range courses {
		out = append(out, dto.CourseWithEnrollment{Course: course, IsEnrolled: enrolled[course.ID]})
	}
	respond.JSON(w, http.StatusOK, out)
}

func (h *CoursesHandler) handleMyCourses(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	courses, err := h.store.ListUserCourses(r.Context(), user.ID)
	if err != nil {
		log.Printf("list user courses: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list courses")
		return
	}
	respond.JSON(w, http.StatusOK, courses)
}

func (h *CoursesHandler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	courseID, err := parseCourseID(r)
	if err != nil {
		respond.Error(w, http.StatusNotFound, "Course not found")
		return
	}

	if err := h.store.Enroll(r.Context(), user.ID, courseID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Course not found")
			return
		}
		log.Printf("enroll user %d in course %d: %v", user.ID, courseID, err)
		respond.Error(w, http.StatusInternalServerError, "failed to enroll")
		return
	}

	respond.JSON(w, http.StatusOK, dto.MessageResponse{Message: "Successfully enrolled in course"})
}

func (h *CoursesHandler) handleLeave(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	courseID, err := parseCourseID(r)
	if err != nil {
		respond.Error(w, http.StatusNotFound, "Course not found")
		return
	}

	if err := h.store.Unenroll(r.Context(), user.ID, courseID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Course not found")
			return
		}
		log.Printf("unenroll user %d from course %d: %v", user.ID, courseID, err)
		respond.Error(w, http.StatusInternalServerError, "failed to leave course")
		return
	}

	respond.JSON(w, http.StatusOK, dto.MessageResponse{Message: "Successfully left course"})
}

func parseCourseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
