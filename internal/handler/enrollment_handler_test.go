package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/middleware"
	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/internal/service"
)

type fakeEnrollmentRepo struct {
	accounts map[string]*models.Account
	courses  *fakeCourseRepo
	cart     map[string][]string
	enrolled map[string][]string
}

func newFakeEnrollmentRepo(courses *fakeCourseRepo, accounts ...*models.Account) *fakeEnrollmentRepo {
	f := &fakeEnrollmentRepo{
		accounts: make(map[string]*models.Account),
		courses:  courses,
		cart:     make(map[string][]string),
		enrolled: make(map[string][]string),
	}
	for _, a := range accounts {
		f.accounts[a.ID] = a
	}
	return f
}

func (f *fakeEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if a, ok := f.accounts[id]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func listContains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func listRemove(list []string, v string) []string {
	out := list[:0]
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}

func (f *fakeEnrollmentRepo) AddToCart(ctx context.Context, accountID, courseID string) error {
	if !listContains(f.cart[accountID], courseID) {
		f.cart[accountID] = append(f.cart[accountID], courseID)
	}
	return nil
}

func (f *fakeEnrollmentRepo) RemoveFromCart(ctx context.Context, accountID, courseID string) error {
	f.cart[accountID] = listRemove(f.cart[accountID], courseID)
	return nil
}

func (f *fakeEnrollmentRepo) resolve(ids []string) []models.Course {
	out := []models.Course{}
	for _, id := range ids {
		if course, ok := f.courses.courses[id]; ok {
			out = append(out, *course)
		}
	}
	return out
}

func (f *fakeEnrollmentRepo) ListCart(ctx context.Context, accountID string) ([]models.Course, error) {
	return f.resolve(f.cart[accountID]), nil
}

func (f *fakeEnrollmentRepo) Enroll(ctx context.Context, accountID, courseID string) (bool, error) {
	if listContains(f.enrolled[accountID], courseID) {
		return false, nil
	}
	f.enrolled[accountID] = append(f.enrolled[accountID], courseID)
	f.cart[accountID] = listRemove(f.cart[accountID], courseID)
	return true, nil
}

func (f *fakeEnrollmentRepo) Unenroll(ctx context.Context, accountID, courseID string) (bool, error) {
	if !listContains(f.enrolled[accountID], courseID) {
		return false, nil
	}
	f.enrolled[accountID] = listRemove(f.enrolled[accountID], courseID)
	return true, nil
}

func (f *fakeEnrollmentRepo) ListEnrolled(ctx context.Context, accountID string) ([]models.Course, error) {
	return f.resolve(f.enrolled[accountID]), nil
}

func (f *fakeEnrollmentRepo) EnrolledUsernames(ctx context.Context, courseID string) ([]string, error) {
	usernames := []string{}
	for id, courses := range f.enrolled {
		if listContains(courses, courseID) {
			usernames = append(usernames, f.accounts[id].Username)
		}
	}
	return usernames, nil
}

func newEnrollmentHandler() (*EnrollmentHandler, *fakeEnrollmentRepo) {
	courses := newFakeCourseRepo(&models.Course{ID: "c1", Title: "Go Basics"})
	accounts := newFakeEnrollmentRepo(courses, &models.Account{ID: "u1", Username: "alice", Role: models.RoleUser})
	svc := service.NewEnrollmentService(accounts, courses, zap.NewNop())
	return NewEnrollmentHandler(svc), accounts
}

func userContext(rec *httptest.ResponseRecorder, method, target, courseID string) *gin.Context {
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, nil)
	if courseID != "" {
		c.Params = gin.Params{{Key: "courseId", Value: courseID}}
	}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{AccountID: "u1", Role: models.RoleUser})
	return c
}

func TestEnrollmentHandlerAddToCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, repo := newEnrollmentHandler()

	rec := httptest.NewRecorder()
	h.AddToCart(userContext(rec, http.MethodPost, "/api/cart/c1", "c1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	var cart []models.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart, 1)
	assert.Equal(t, []string{"c1"}, repo.cart["u1"])
}

func TestEnrollmentHandlerAddToCartUnknownCourse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newEnrollmentHandler()

	rec := httptest.NewRecorder()
	h.AddToCart(userContext(rec, http.MethodPost, "/api/cart/missing", "missing"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Course not found", errorMessage(t, rec.Body.Bytes()))
}

func TestEnrollmentHandlerCartWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newEnrollmentHandler()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/cart", nil)

	h.Cart(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEnrollmentHandlerEnroll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, repo := newEnrollmentHandler()
	repo.cart["u1"] = []string{"c1"}

	rec := httptest.NewRecorder()
	h.Enroll(userContext(rec, http.MethodPost, "/api/enroll/c1", "c1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Enrolled successfully", errorMessage(t, rec.Body.Bytes()))
	assert.Empty(t, repo.cart["u1"], "enrolling clears the cart entry")
	assert.Equal(t, []string{"c1"}, repo.enrolled["u1"])
}

func TestEnrollmentHandlerUnenrollReturnsRemaining(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, repo := newEnrollmentHandler()
	repo.courses.courses["c2"] = &models.Course{ID: "c2", Title: "SQL Deep Dive"}
	repo.courses.order = append(repo.courses.order, "c2")
	repo.enrolled["u1"] = []string{"c1", "c2"}

	rec := httptest.NewRecorder()
	h.Unenroll(userContext(rec, http.MethodDelete, "/api/enroll/c1", "c1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	var remaining []models.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &remaining))
	require.Len(t, remaining, 1)
	assert.Equal(t, "c2", remaining[0].ID)
}

func TestEnrollmentHandlerRoster(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, repo := newEnrollmentHandler()
	repo.enrolled["u1"] = []string{"c1"}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/enrollments/c1", nil)
	c.Params = gin.Params{{Key: "courseId", Value: "c1"}}

	h.Roster(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var roster models.CourseRoster
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roster))
	assert.Equal(t, "Go Basics", roster.CourseTitle)
	assert.Equal(t, []string{"alice"}, roster.EnrolledUsers)
}
