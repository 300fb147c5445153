package models

// RoleName identifies a seeded role
type RoleName string

const (
	RoleSuperAdmin   RoleName = "SUPER_ADMIN"
	RoleAdmin        RoleName = "ADMIN"
	RoleCompanyAdmin RoleName = "COMPANY_ADMIN"
	RoleEmployee     RoleName = "EMPLOYEE"
	RoleUser         RoleName = "USER"
)

// Role represents a role held by an account. Roles are compared by name.
type Role struct {
	ID   int      `json:"id" db:"id"`
	Name RoleName `json:"name" db:"name"`
}
