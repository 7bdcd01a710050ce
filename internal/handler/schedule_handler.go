package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dept-routine-api/internal/dto"
	"github.com/noah-isme/dept-routine-api/internal/middleware"
	"github.com/noah-isme/dept-routine-api/internal/service"
	appErrors "github.com/noah-isme/dept-routine-api/pkg/errors"
	"github.com/noah-isme/dept-routine-api/pkg/response"
)

type scheduleService interface {
	FinalRoutine(ctx context.Context, departmentID int64) ([]dto.RoutineEntry, bool, error)
	ByRoom(ctx context.Context, roomID int64) ([]dto.RoutineEntry, error)
	BySemester(ctx context.Context, semesterID int64) ([]dto.RoutineEntry, error)
	ByCourse(ctx context.Context, courseID int64) ([]dto.RoutineEntry, error)
	ByTeacher(ctx context.Context, teacherID int64) ([]dto.RoutineEntry, error)
}

// ScheduleHandler serves the saved weekly routine.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Final godoc
// @Summary Saved routine of a department
// @Description Entries ordered by day of week then start time.
// @Tags Schedules
// @Produce json
// @Param departmentId query int true "Department ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /routine/final [get]
func (h *ScheduleHandler) Final(c *gin.Context) {
	var query dto.RoutineQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid departmentId"))
		return
	}
	entries, hit, err := h.service.FinalRoutine(c.Request.Context(), query.DepartmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, entries, middleware.ExtractMeta(c))
}

// ByRoom godoc
// @Summary Saved routine entries held in a room
// @Tags Schedules
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} response.Envelope
// @Router /weekly-schedule/room/{id} [get]
func (h *ScheduleHandler) ByRoom(c *gin.Context) {
	h.view(c, h.service.ByRoom)
}

// BySemester godoc
// @Summary Saved routine entries of a semester
// @Tags Schedules
// @Produce json
// @Param id path int true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /weekly-schedule/semester/{id} [get]
func (h *ScheduleHandler) BySemester(c *gin.Context) {
	h.view(c, h.service.BySemester)
}

// ByTeacher godoc
// @Summary Saved routine entries of every course a teacher teaches
// @Tags Schedules
// @Produce json
// @Param id path int true "Teacher user ID"
// @Success 200 {object} response.Envelope
// @Router /weekly-schedule/teacher/{id} [get]
func (h *ScheduleHandler) ByTeacher(c *gin.Context) {
	h.view(c, h.service.ByTeacher)
}

// ByCourse godoc
// @Summary Saved routine entries of a course
// @Tags Schedules
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /weekly-schedule/course/{id} [get]
func (h *ScheduleHandler) ByCourse(c *gin.Context) {
	h.view(c, h.service.ByCourse)
}

func (h *ScheduleHandler) view(c *gin.Context, load func(context.Context, int64) ([]dto.RoutineEntry, error)) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, err := load(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
