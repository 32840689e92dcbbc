package user

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/prathomik/sheba/core"
)

// Roles
const (
	RoleSuperAdmin  = "SUPER_ADMIN"
	RoleSchoolAdmin = "SCHOOL_ADMIN" // headmaster
	RoleTeacher     = "TEACHER"
	RoleViewer      = "VIEWER"
)

var AllRoles = []string{RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher, RoleViewer}

// User is a login-capable account. Teachers are regular users carrying the
// extra roster fields; a user without a SchoolID operates at super-admin scope.
type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	Role          string `json:"role"`
	SchoolID      string `json:"school_id,omitempty"`
	EmailVerified bool   `json:"email_verified"`

	// roster fields, TEACHER role only
	Subject     string    `json:"subject,omitempty"`
	Designation string    `json:"designation,omitempty"`
	JoinDate    time.Time `json:"join_date,omitempty"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

func (u *User) IsSuperAdmin() bool  { return u.Role == RoleSuperAdmin }
func (u *User) IsSchoolAdmin() bool { return u.Role == RoleSchoolAdmin }
func (u *User) IsTeacher() bool     { return u.Role == RoleTeacher }

// NewTeacher contains information needed to add a Teacher to a school roster.
// Teachers are created pre-verified; they never go through the email
// verification gate.
type NewTeacher struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	SchoolID    string `json:"school_id" validate:"required"`
	Subject     string `json:"subject"`
	Designation string `json:"designation"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	return validate.Struct(nt)
}
