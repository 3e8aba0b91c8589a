package models

import "time"

// UserRole represents the actor roles recognised by the workflow permission
// tables.
type UserRole string

const (
	RoleCiudadano  UserRole = "CIUDADANO"
	RoleAbogado    UserRole = "ABOGADO"
	RoleSecretario UserRole = "SECRETARIO"
	RoleJuez       UserRole = "JUEZ"
	RoleAdmin      UserRole = "ADMIN"
)

// User represents an application account stored in the usuarios table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	Matricula    *string    `db:"matricula" json:"matricula,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
