package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the JWT payload of access tokens issued by the identity service.
// DepartmentID scopes department administrators; it is nil for super administrators.
type JWTClaims struct {
	UserID       int64    `json:"user_id"`
	Role         UserRole `json:"role"`
	Email        string   `json:"email"`
	DepartmentID *int64   `json:"department_id,omitempty"`
	jwt.RegisteredClaims
}

// CanManageDepartment reports whether the caller may act on the given department.
func (c *JWTClaims) CanManageDepartment(departmentID int64) bool {
	if c == nil {
		return false
	}
	switch c.Role {
	case RoleSuperAdmin:
		return true
	case RoleDepartmentAdmin:
		return c.DepartmentID != nil && *c.DepartmentID == departmentID
	default:
		return false
	}
}
