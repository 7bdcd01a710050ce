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

type routineExporter interface {
	Export(ctx context.Context, query dto.ExportRoutineQuery) (*service.ExportFile, error)
}

// ExportHandler streams routine exports.
type ExportHandler struct {
	service routineExporter
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Routine godoc
// @Summary Download the saved routine of a department
// @Tags Export
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param departmentId query int true "Department ID"
// @Param format query string false "csv, pdf or xlsx" Enums(csv, pdf, xlsx)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /routine/export [get]
func (h *ExportHandler) Routine(c *gin.Context) {
	var query dto.ExportRoutineQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	file, err := h.service.Export(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
