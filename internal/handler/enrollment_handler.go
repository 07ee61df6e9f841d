package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursedeck/coursedeck-api/internal/service"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/response"
)

// EnrollmentHandler wires cart and enrollment endpoints to the service.
type EnrollmentHandler struct {
	service *service.EnrollmentService
}

// NewEnrollmentHandler creates a new handler.
func NewEnrollmentHandler(svc *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

// AddToCart godoc
// @Summary Put a course in the cart
// @Tags Cart
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {array} models.Course
// @Failure 404 {object} map[string]string
// @Security TokenAuth
// @Router /api/cart/{courseId} [post]
func (h *EnrollmentHandler) AddToCart(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	cart, err := h.service.AddToCart(c.Request.Context(), claims.AccountID, c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, cart)
}

// RemoveFromCart godoc
// @Summary Take a course out of the cart
// @Tags Cart
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {array} models.Course
// @Security TokenAuth
// @Router /api/cart/{courseId} [delete]
func (h *EnrollmentHandler) RemoveFromCart(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	cart, err := h.service.RemoveFromCart(c.Request.Context(), claims.AccountID, c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, cart)
}

// Cart godoc
// @Summary Current cart contents
// @Tags Cart
// @Produce json
// @Success 200 {array} models.Course
// @Security TokenAuth
// @Router /api/cart [get]
func (h *EnrollmentHandler) Cart(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	cart, err := h.service.Cart(c.Request.Context(), claims.AccountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, cart)
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Enrolls the caller and removes the course from the cart. Enrolling twice changes nothing.
// @Tags Enrollment
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security TokenAuth
// @Router /api/enroll/{courseId} [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Enroll(c.Request.Context(), claims.AccountID, c.Param("courseId")); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Enrolled successfully"})
}

// Unenroll godoc
// @Summary Leave a course
// @Tags Enrollment
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {array} models.Course
// @Failure 404 {object} map[string]string
// @Security TokenAuth
// @Router /api/enroll/{courseId} [delete]
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	remaining, err := h.service.Unenroll(c.Request.Context(), claims.AccountID, c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, remaining)
}

// Enrolled godoc
// @Summary Courses the caller is enrolled in
// @Tags Enrollment
// @Produce json
// @Success 200 {array} models.Course
// @Security TokenAuth
// @Router /api/enrolled [get]
func (h *EnrollmentHandler) Enrolled(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	courses, err := h.service.Enrolled(c.Request.Context(), claims.AccountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, courses)
}

// Roster godoc
// @Summary Who is enrolled in a course
// @Tags Admin
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} models.CourseRoster
// @Failure 404 {object} map[string]string
// @Security TokenAuth
// @Router /api/enrollments/{courseId} [get]
func (h *EnrollmentHandler) Roster(c *gin.Context) {
	roster, err := h.service.Roster(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, roster)
}
