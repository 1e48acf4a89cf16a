package domain

import "time"

// Role enumerates the mutually exclusive user roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
	RoleSalesAgent Role = "sales_agent"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleSalesAgent:
		return true
	}
	return false
}

// User is the domain model for people operating the system.
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	Phone        *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsTechnician reports whether the user holds the technician role.
func (u *User) IsTechnician() bool { return u.Role == RoleTechnician }

// IsSalesAgent reports whether the user holds the sales agent role.
func (u *User) IsSalesAgent() bool { return u.Role == RoleSalesAgent }
