package models

import "time"

// AssignmentState tracks whether an assignment still accepts work.
type AssignmentState string

const (
	AssignmentOpen   AssignmentState = "abierta"
	AssignmentClosed AssignmentState = "cerrada"
)

// Assignment (tarea) is read-only to the engine; it never transitions
// assignment state.
type Assignment struct {
	ID        int64           `db:"id" json:"id"`
	Title     string          `db:"titulo" json:"titulo"`
	State     AssignmentState `db:"estado" json:"estado"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Group (grupo) is a class group; the engine touches only its member set.
type Group struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"nombre" json:"nombre"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
