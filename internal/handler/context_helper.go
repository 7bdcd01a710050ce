package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dept-routine-api/internal/middleware"
	"github.com/noah-isme/dept-routine-api/internal/models"
	appErrors "github.com/noah-isme/dept-routine-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

// authorizeDepartment rejects callers that may not manage departmentID.
func authorizeDepartment(c *gin.Context, departmentID int64) error {
	claims := claimsFromContext(c)
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if !claims.CanManageDepartment(departmentID) {
		return appErrors.Clone(appErrors.ErrForbidden, "department is outside your scope")
	}
	return nil
}

func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer")
	}
	return id, nil
}
