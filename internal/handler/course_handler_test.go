package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/internal/service"
)

type fakeCourseRepo struct {
	courses map[string]*models.Course
	order   []string
	stats   []models.CourseStats
}

func newFakeCourseRepo(courses ...*models.Course) *fakeCourseRepo {
	f := &fakeCourseRepo{courses: make(map[string]*models.Course)}
	for _, c := range courses {
		f.courses[c.ID] = c
		f.order = append(f.order, c.ID)
	}
	return f
}

func (f *fakeCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	out := make([]models.Course, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.courses[id])
	}
	return out, nil
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *course
	return &copied, nil
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = "course-" + course.Title
	}
	f.courses[course.ID] = course
	f.order = append(f.order, course.ID)
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, id string, input *models.CourseInput) error {
	course, ok := f.courses[id]
	if !ok {
		return sql.ErrNoRows
	}
	course.Title = input.Title
	return nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) IncrementViews(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if course, ok := f.courses[id]; ok {
			course.Views++
		}
	}
	return nil
}

func (f *fakeCourseRepo) Stats(ctx context.Context) ([]models.CourseStats, error) {
	return f.stats, nil
}

func (f *fakeCourseRepo) Count(ctx context.Context) (int, error) {
	return len(f.courses), nil
}

func newCourseHandler(repo *fakeCourseRepo) *CourseHandler {
	catalog := service.NewCatalogService(repo, nil, nil, validator.New(), zap.NewNop(), service.CatalogConfig{CacheTTL: time.Minute})
	export := service.NewExportService(repo, nil, nil, zap.NewNop())
	return NewCourseHandler(catalog, export)
}

func TestCourseHandlerPublicList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeCourseRepo(&models.Course{ID: "c1", Title: "Go Basics", Views: 3})
	h := newCourseHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/public/items", nil)

	h.PublicList(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var courses []models.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, 3, courses[0].Views, "public browsing does not count views")
	assert.Equal(t, 3, repo.courses["c1"].Views)
}

func TestCourseHandlerListSingle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeCourseRepo(&models.Course{ID: "c1", Title: "Go Basics", Views: 3})
	h := newCourseHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/items?id=c1", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var courses []models.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "c1", courses[0].ID)
	assert.Equal(t, 4, courses[0].Views)
}

func TestCourseHandlerListUnknownIDReturnsEmptyArray(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newCourseHandler(newFakeCourseRepo())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/items?id=missing", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var courses []models.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &courses))
	assert.Empty(t, courses)
}

func TestCourseHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeCourseRepo()
	h := newCourseHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/api/item", `{"title":"New Course","price":25}`)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, repo.courses, 1)
}

func TestCourseHandlerCreateMissingTitle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newCourseHandler(newFakeCourseRepo())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/api/item", `{"price":25}`)

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeCourseRepo(&models.Course{ID: "c1", Title: "Go Basics"})
	h := newCourseHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/item/c1", nil)
	c.Params = gin.Params{{Key: "id", Value: "c1"}}

	h.Delete(c)
	// gin defers the header write; flush it so the recorder sees the status,
	// as the engine would after the handler chain.
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, repo.courses)
}

func TestCourseHandlerDeleteNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newCourseHandler(newFakeCourseRepo())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/item/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCourseHandlerStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeCourseRepo()
	repo.stats = []models.CourseStats{{ID: "c1", Title: "Go Basics", EnrollmentCount: 4, Views: 9}}
	h := newCourseHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/stats", nil)

	h.Stats(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var stats []models.CourseStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, 4, stats[0].EnrollmentCount)
}

func TestCourseHandlerExportStatsCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeCourseRepo()
	repo.stats = []models.CourseStats{{ID: "c1", Title: "Go Basics", EnrollmentCount: 4, Views: 9}}
	h := newCourseHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/stats/export?format=csv", nil)

	h.ExportStats(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "Go Basics,4,9")
}

func TestCourseHandlerExportStatsBadFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newCourseHandler(newFakeCourseRepo())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/stats/export?format=xlsx", nil)

	h.ExportStats(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
