package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dept-routine-api/internal/dto"
	"github.com/noah-isme/dept-routine-api/internal/service"
	appErrors "github.com/noah-isme/dept-routine-api/pkg/errors"
	"github.com/noah-isme/dept-routine-api/pkg/response"
)

type routineService interface {
	GeneratePreview(ctx context.Context, req dto.PreviewRoutineRequest) (*dto.RoutinePreview, error)
	GetPreview(ctx context.Context, previewID string) (*dto.RoutinePreview, error)
	MoveEntry(ctx context.Context, previewID string, req dto.MoveRoutineEntryRequest) (*dto.RoutinePreview, error)
	CheckMove(ctx context.Context, previewID string, req dto.MoveRoutineEntryRequest) error
	DiscardPreview(ctx context.Context, previewID string) error
	Commit(ctx context.Context, req dto.SaveRoutineRequest) (*dto.SaveRoutineResponse, error)
	CommitDepartment(ctx context.Context, req dto.SaveRoutineRequest) (int64, error)
}

// RoutineHandler exposes the routine preview and save endpoints.
type RoutineHandler struct {
	service routineService
}

// NewRoutineHandler constructs the handler.
func NewRoutineHandler(svc *service.RoutineService) *RoutineHandler {
	return &RoutineHandler{service: svc}
}

// Preview godoc
// @Summary Generate a routine preview for a department
// @Description Runs the generator and stores the result as an unsaved preview. Nothing is persisted.
// @Tags Routine
// @Accept json
// @Produce json
// @Param payload body dto.PreviewRoutineRequest true "Department to schedule"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /routine/preview [post]
func (h *RoutineHandler) Preview(c *gin.Context) {
	var req dto.PreviewRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preview payload"))
		return
	}
	if req.DepartmentID > 0 {
		if err := authorizeDepartment(c, req.DepartmentID); err != nil {
			response.Error(c, err)
			return
		}
	}
	preview, err := h.service.GeneratePreview(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

// GetPreview godoc
// @Summary Fetch a stored routine preview
// @Tags Routine
// @Produce json
// @Param id path string true "Preview ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /routine/preview/{id} [get]
func (h *RoutineHandler) GetPreview(c *gin.Context) {
	preview, err := h.scopedPreview(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

// Move godoc
// @Summary Move a preview entry to another cell
// @Description Rejected with 409 when the destination cell holds an entry sharing the room, course or semester.
// @Tags Routine
// @Accept json
// @Produce json
// @Param id path string true "Preview ID"
// @Param payload body dto.MoveRoutineEntryRequest true "Move payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /routine/preview/{id}/move [post]
func (h *RoutineHandler) Move(c *gin.Context) {
	req, ok := h.bindMove(c)
	if !ok {
		return
	}
	preview, err := h.service.MoveEntry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

// CheckMove godoc
// @Summary Check whether a preview move would be accepted
// @Tags Routine
// @Accept json
// @Produce json
// @Param id path string true "Preview ID"
// @Param payload body dto.MoveRoutineEntryRequest true "Move payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /routine/preview/{id}/check [post]
func (h *RoutineHandler) CheckMove(c *gin.Context) {
	req, ok := h.bindMove(c)
	if !ok {
		return
	}
	if err := h.service.CheckMove(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.MoveCheckResult{OK: true}, nil)
}

// DiscardPreview godoc
// @Summary Discard a stored routine preview
// @Tags Routine
// @Param id path string true "Preview ID"
// @Success 204
// @Router /routine/preview/{id} [delete]
func (h *RoutineHandler) DiscardPreview(c *gin.Context) {
	if _, err := h.scopedPreview(c); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DiscardPreview(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Save godoc
// @Summary Replace the department routine
// @Description Deletes the department's saved routine and inserts the placed entries of a preview or of the posted routine array, in one transaction.
// @Tags Routine
// @Accept json
// @Produce json
// @Param payload body dto.SaveRoutineRequest true "Preview ID or routine entries"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /routine/generate [post]
func (h *RoutineHandler) Save(c *gin.Context) {
	var req dto.SaveRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid save payload"))
		return
	}
	departmentID, err := h.service.CommitDepartment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := authorizeDepartment(c, departmentID); err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Commit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

func (h *RoutineHandler) bindMove(c *gin.Context) (dto.MoveRoutineEntryRequest, bool) {
	var req dto.MoveRoutineEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid move payload"))
		return req, false
	}
	if _, err := h.scopedPreview(c); err != nil {
		response.Error(c, err)
		return req, false
	}
	return req, true
}

func (h *RoutineHandler) scopedPreview(c *gin.Context) (*dto.RoutinePreview, error) {
	preview, err := h.service.GetPreview(c.Request.Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if err := authorizeDepartment(c, preview.DepartmentID); err != nil {
		return nil, err
	}
	return preview, nil
}
