package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-timetable-api/internal/repository"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
	"github.com/noah-isme/campus-timetable-api/pkg/response"
)

// CatalogHandler exposes the read-only course catalog.
type CatalogHandler struct {
	catalog *repository.CatalogRepository
}

// NewCatalogHandler constructs a new CatalogHandler.
func NewCatalogHandler(catalog *repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Courses godoc
// @Summary List degree programmes
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/courses [get]
func (h *CatalogHandler) Courses(c *gin.Context) {
	courses, err := h.catalog.ListCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Sections godoc
// @Summary List sections for a course
// @Tags Catalog
// @Produce json
// @Param course path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /catalog/courses/{course}/sections [get]
func (h *CatalogHandler) Sections(c *gin.Context) {
	sections, err := h.catalog.ListSections(c.Request.Context(), c.Param("course"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, nil)
}

// Subjects godoc
// @Summary List subjects for a course semester
// @Tags Catalog
// @Produce json
// @Param course path string true "Course code"
// @Param semester query int true "Semester"
// @Success 200 {object} response.Envelope
// @Router /catalog/courses/{course}/subjects [get]
func (h *CatalogHandler) Subjects(c *gin.Context) {
	semester, err := strconv.Atoi(c.Query("semester"))
	if err != nil || semester < 1 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester must be a positive integer"))
		return
	}

	subjects, err := h.catalog.ListSubjects(c.Request.Context(), c.Param("course"), semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}
