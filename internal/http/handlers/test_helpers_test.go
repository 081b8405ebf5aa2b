package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/edustack/edu-be/internal/auth"
	"github.com/edustack/edu-be/internal/middleware"
	"github.com/edustack/edu-be/internal/models"
	"github.com/edustack/edu-be/internal/storage"
)

// memStore is an in-memory storage.Store for handler tests.
type memStore struct {
	mu          sync.Mutex
	nextUserID  int64
	nextCourse  int64
	users       map[int64]models.User
	courses     map[int64]models.Course
	enrollments map[int64]map[int64]bool // userID -> courseID set
}

var _ storage.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		nextUserID:  1,
		nextCourse:  1,
		users:       make(map[int64]models.User),
		courses:     make(map[int64]models.Course),
		enrollments: make(map[int64]map[int64]bool),
	}
}

func (m *memStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	user.ID = m.nextUserID
	user.CreatedAt = time.Now()
	m.nextUserID++
	m.users[user.ID] = user
	return user, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (m *memStore) GetUserByID(_ context.Context, id int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return models.User{}, storage.ErrNotFound
}

func (m *memStore) UpdateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return models.User{}, storage.ErrNotFound
	}
	for id, existing := range m.users {
		if id != user.ID && existing.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memStore) CreateCourse(_ context.Context, course models.Course) (models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	course.ID = m.nextCourse
	course.CreatedAt = time.Now()
	m.nextCourse++
	m.courses[course.ID] = course
	return course, nil
}

func (m *memStore) GetCourse(_ context.Context, id int64) (models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if course, ok := m.courses[id]; ok {
		return course, nil
	}
	return models.Course{}, storage.ErrNotFound
}

func (m *memStore) ListCourses(_ context.Context) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedCoursesLocked(), nil
}

func (m *memStore) ListCoursesWithEnrollment(_ context.Context, userID int64) ([]models.Course, map[int64]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	enrolled := make(map[int64]bool)
	for id := range m.enrollments[userID] {
		enrolled[id] = true
	}
	return m.sortedCoursesLocked(), enrolled, nil
}

func (m *memStore) ListUserCourses(_ context.Context, userID int64) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Course{}
	for _, course := range m.sortedCoursesLocked() {
		if m.enrollments[userID][course.ID] {
			out = append(out, course)
		}
	}
	return out, nil
}

func (m *memStore) Enroll(_ context.Context, userID, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[courseID]; !ok {
		return storage.ErrNotFound
	}
	if m.enrollments[userID] == nil {
		m.enrollments[userID] = make(map[int64]bool)
	}
	m.enrollments[userID][courseID] = true
	return nil
}

func (m *memStore) Unenroll(_ context.Context, userID, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[courseID]; !ok {
		return storage.ErrNotFound
	}
	delete(m.enrollments[userID], courseID)
	return nil
}

func (m *memStore) sortedCoursesLocked() []models.Course {
	out := make([]models.Course, 0, len(m.courses))
	for _, course := range m.courses {
		out = append(out, course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// newTestMux wires all handlers against a memStore the way the server does.
func newTestMux(t *testing.T) (*http.ServeMux, *memStore, *auth.TokenManager) {
	t.Helper()

	store := newMemStore()
	tokens := auth.NewTokenManager("handler-test-secret", "edu-backend", 30*time.Minute)
	guard := middleware.NewGuard(tokens, store)

	mux := http.NewServeMux()
	NewHealthHandler("edu-backend").Register(mux)
	NewAuthHandler(store, tokens).Register(mux)
	NewUsersHandler(store, guard).Register(mux)
	NewCoursesHandler(store, guard).Register(mux)

	return mux, store, tokens
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	return resp
}

func decodeBody[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", resp.Body.String(), err)
	}
	return out
}

// registerUser registers through the API and returns the bearer token.
func registerUser(t *testing.T, mux *http.ServeMux, email, password, name string) string {
	t.Helper()

	resp := doJSON(t, mux, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "password": password, "name": name,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("register status = %d body = %s", resp.Code, resp.Body.String())
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if out.AccessToken == "" {
		t.Fatal("register returned empty token")
	}
	return out.AccessToken
}
