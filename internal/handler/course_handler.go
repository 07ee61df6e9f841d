package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/internal/service"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/response"
)

// CourseHandler wires HTTP endpoints to the catalog and export services.
type CourseHandler struct {
	catalog *service.CatalogService
	export  *service.ExportService
}

// NewCourseHandler creates a new handler.
func NewCourseHandler(catalog *service.CatalogService, export *service.ExportService) *CourseHandler {
	return &CourseHandler{catalog: catalog, export: export}
}

// PublicList godoc
// @Summary Browse the catalog without signing in
// @Tags Courses
// @Produce json
// @Success 200 {array} models.Course
// @Router /api/public/items [get]
func (h *CourseHandler) PublicList(c *gin.Context) {
	courses, err := h.catalog.PublicList(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, courses)
}

// List godoc
// @Summary Browse the catalog
// @Description Returns all courses as an array, filtered to one entry when ?id= is given. An id matching nothing yields an empty array. Each returned course counts one view.
// @Tags Courses
// @Produce json
// @Param id query string false "Course ID"
// @Success 200 {array} models.Course
// @Failure 401 {object} map[string]string
// @Security TokenAuth
// @Router /api/items [get]
func (h *CourseHandler) List(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		// The response stays an array even when filtering by id, so a
		// miss is an empty array rather than a 404.
		course, err := h.catalog.Get(c.Request.Context(), id)
		if err != nil {
			if appErrors.FromError(err).Status == http.StatusNotFound {
				response.JSON(c, http.StatusOK, []models.Course{})
				return
			}
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, []models.Course{*course})
		return
	}

	courses, err := h.catalog.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, courses)
}

// Create godoc
// @Summary Add a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body models.CourseInput true "Course payload"
// @Success 201 {object} models.Course
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security TokenAuth
// @Router /api/item [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var input models.CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.catalog.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, course)
}

// Update godoc
// @Summary Edit a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body models.CourseInput true "Course payload"
// @Success 200 {object} models.Course
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security TokenAuth
// @Router /api/item/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var input models.CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.catalog.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, course)
}

// Delete godoc
// @Summary Remove a course
// @Tags Courses
// @Param id path string true "Course ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security TokenAuth
// @Router /api/item/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Stats godoc
// @Summary Per-course enrollment and view counters
// @Tags Admin
// @Produce json
// @Success 200 {array} models.CourseStats
// @Failure 403 {object} map[string]string
// @Security TokenAuth
// @Router /api/stats [get]
func (h *CourseHandler) Stats(c *gin.Context) {
	stats, err := h.catalog.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats)
}

// ExportStats godoc
// @Summary Download the stats as CSV or PDF
// @Tags Admin
// @Produce octet-stream
// @Param format query string false "Export format" Enums(csv, pdf) default(csv)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Security TokenAuth
// @Router /api/stats/export [get]
func (h *CourseHandler) ExportStats(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))

	result, err := h.export.Generate(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

// AdminWelcome godoc
// @Summary Admin landing probe
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security TokenAuth
// @Router /api/admin [get]
func (h *CourseHandler) AdminWelcome(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"message": "Welcome, admin"})
}
