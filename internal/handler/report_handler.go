package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-timetable-api/internal/service"
	"github.com/noah-isme/campus-timetable-api/pkg/response"
)

// ReportHandler wires occupancy reports to HTTP routes.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs a new ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RoomUtilization godoc
// @Summary Per-room usage for the week covering a date
// @Tags Reports
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Param course query string false "Course code"
// @Param semester query int false "Semester"
// @Success 200 {object} response.Envelope
// @Router /reports/room-utilization [get]
func (h *ReportHandler) RoomUtilization(c *gin.Context) {
	semester, _ := strconv.Atoi(c.Query("semester"))
	reports, err := h.reports.RoomUtilization(c.Request.Context(), c.Query("date"), c.Query("course"), semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}

// RoomConflicts godoc
// @Summary Rooms claimed by more than one section in the same slot
// @Tags Reports
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Param course query string false "Course code"
// @Param semester query int false "Semester"
// @Success 200 {object} response.Envelope
// @Router /reports/room-conflicts [get]
func (h *ReportHandler) RoomConflicts(c *gin.Context) {
	semester, _ := strconv.Atoi(c.Query("semester"))
	conflicts, err := h.reports.RoomConflicts(c.Request.Context(), c.Query("date"), c.Query("course"), semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}
