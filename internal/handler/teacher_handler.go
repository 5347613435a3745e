package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-timetable-api/internal/dto"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	"github.com/noah-isme/campus-timetable-api/internal/service"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
	"github.com/noah-isme/campus-timetable-api/pkg/response"
)

// TeacherHandler wires the roster service to HTTP routes.
type TeacherHandler struct {
	teachers *service.TeacherService
}

// NewTeacherHandler constructs a new TeacherHandler.
func NewTeacherHandler(teachers *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Param search query string false "Search by name/email"
// @Param available query bool false "Filter by availability"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	filter := models.TeacherFilter{Search: strings.TrimSpace(c.Query("search"))}
	if available := c.Query("available"); available != "" {
		switch strings.ToLower(available) {
		case "true":
			val := true
			filter.Available = &val
		case "false":
			val := false
			filter.Available = &val
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	teachers, pagination, err := h.teachers.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, pagination)
}

// Get godoc
// @Summary Get teacher detail
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	teacher, err := h.teachers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Create godoc
// @Summary Register a teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body dto.CreateTeacherRequest true "Teacher"
// @Success 201 {object} response.Envelope
// @Router /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req dto.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload"))
		return
	}

	teacher, err := h.teachers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// SetAvailability godoc
// @Summary Toggle whether a teacher is schedulable
// @Tags Teachers
// @Accept json
// @Param id path string true "Teacher ID"
// @Param payload body dto.UpdateAvailabilityRequest true "Availability"
// @Success 204
// @Router /teachers/{id}/availability [put]
func (h *TeacherHandler) SetAvailability(c *gin.Context) {
	var req dto.UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload"))
		return
	}

	if err := h.teachers.SetAvailability(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetLectureLimit godoc
// @Summary Set or clear a teacher's weekly lecture target
// @Tags Teachers
// @Accept json
// @Param id path string true "Teacher ID"
// @Param payload body dto.UpdateLectureLimitRequest true "Lecture limit"
// @Success 204
// @Router /teachers/{id}/lecture-limit [put]
func (h *TeacherHandler) SetLectureLimit(c *gin.Context) {
	var req dto.UpdateLectureLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lecture limit payload"))
		return
	}

	if err := h.teachers.SetLectureLimit(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetSubjectSections godoc
// @Summary Replace a teacher's subject authorizations
// @Tags Teachers
// @Accept json
// @Param id path string true "Teacher ID"
// @Param payload body dto.UpdateSubjectSectionsRequest true "Authorizations"
// @Success 204
// @Router /teachers/{id}/subject-sections [put]
func (h *TeacherHandler) SetSubjectSections(c *gin.Context) {
	var req dto.UpdateSubjectSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject sections payload"))
		return
	}

	if err := h.teachers.SetSubjectSections(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetPreferences godoc
// @Summary Replace a teacher's soft scheduling window
// @Tags Teachers
// @Accept json
// @Param id path string true "Teacher ID"
// @Param payload body dto.UpdatePreferencesRequest true "Preferences"
// @Success 204
// @Router /teachers/{id}/preferences [put]
func (h *TeacherHandler) SetPreferences(c *gin.Context) {
	var req dto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preferences payload"))
		return
	}

	if err := h.teachers.SetPreferences(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
