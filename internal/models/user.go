package models

import "time"

// UserRole represents the available roles for authenticated actors.
type UserRole string

const (
	RoleStudent UserRole = "alumno"
	RoleTeacher UserRole = "profesor"
	RoleAdmin   UserRole = "admin"
)

// User is a directory entry. The engine only reads users; account
// management lives elsewhere.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"nombre_usuario" json:"nombre_usuario"`
	FullName     string    `db:"nombre_completo" json:"nombre_completo"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserInfo describes a user in responses.
type UserInfo struct {
	ID       int64    `json:"id"`
	Username string   `json:"nombre_usuario"`
	FullName string   `json:"nombre_completo"`
	Role     UserRole `json:"role"`
}

// Info maps the directory record to its response shape.
func (u *User) Info() UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, FullName: u.FullName, Role: u.Role}
}

// ResolvedIdentity is the transient result of decoding a QR payload.
// It is never persisted.
type ResolvedIdentity struct {
	UserID   int64  `json:"alumno_id"`
	FullName string `json:"nombre_completo"`
	Username string `json:"nombre_usuario"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
