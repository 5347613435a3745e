package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-timetable-api/internal/dto"
	"github.com/noah-isme/campus-timetable-api/internal/service"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
	"github.com/noah-isme/campus-timetable-api/pkg/response"
)

// TimetableHandler wires generation and lookup to HTTP routes.
type TimetableHandler struct {
	timetables   *service.TimetableService
	exports      *service.ExportService
	regeneration *service.RegenerationService
}

// NewTimetableHandler constructs a new TimetableHandler.
func NewTimetableHandler(timetables *service.TimetableService, exports *service.ExportService, regeneration *service.RegenerationService) *TimetableHandler {
	return &TimetableHandler{timetables: timetables, exports: exports, regeneration: regeneration}
}

// Generate godoc
// @Summary Generate a timetable for the week of the given date
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation request"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload"))
		return
	}

	tt, err := h.timetables.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tt)
}

// GetByDate godoc
// @Summary Get the timetable covering a date
// @Tags Timetables
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Param course query string false "Course code"
// @Param semester query int false "Semester"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) GetByDate(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}

	tt, err := h.timetables.GetByDate(c.Request.Context(), query.Date, query.Course, query.Semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tt, nil)
}

// Latest godoc
// @Summary Get the most recent timetable
// @Tags Timetables
// @Produce json
// @Param course query string false "Course code"
// @Param semester query int false "Semester"
// @Success 200 {object} response.Envelope
// @Router /timetables/latest [get]
func (h *TimetableHandler) Latest(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}

	tt, err := h.timetables.Latest(c.Request.Context(), query.Course, query.Semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tt, nil)
}

// Export godoc
// @Summary Download the timetable covering a date as CSV or PDF
// @Tags Timetables
// @Produce text/csv
// @Produce application/pdf
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Param format query string false "csv or pdf, defaults to csv"
// @Param section query string false "Restrict to one section"
// @Success 200 {file} byte
// @Router /timetables/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}

	semester, _ := strconv.Atoi(c.Query("semester"))
	file, err := h.exports.Export(c.Request.Context(), query.Date, c.Query("course"), semester, query.Section, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// Regenerate godoc
// @Summary Queue an immediate regeneration run
// @Tags Timetables
// @Success 202 {object} response.Envelope
// @Router /timetables/regenerate [post]
func (h *TimetableHandler) Regenerate(c *gin.Context) {
	if h.regeneration == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrPreconditionFailed, "scheduled regeneration is disabled"))
		return
	}
	if err := h.regeneration.Trigger(); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue regeneration"))
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"status": "queued"}, nil)
}
