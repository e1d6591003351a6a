package models

import (
	"io"
	"strings"
	"time"
)

// File constraints enforced at submission creation. The file reference is
// immutable afterwards.
const (
	MaxSubmissionFileSize = 10 << 20 // 10 MiB
	MaxCommentLength      = 500
	MaxFeedbackLength     = 1000
)

var allowedFileTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
	"image/gif":       {},
	"application/pdf": {},
}

// AllowedFileType reports whether the MIME type is accepted for submissions.
func AllowedFileType(contentType string) bool {
	_, ok := allowedFileTypes[strings.ToLower(contentType)]
	return ok
}

// Submission (entrega) records one student's delivered work for an
// assignment. Grade, GraderID and GradedAt transition together: either all
// set or all absent.
type Submission struct {
	ID           int64      `db:"id" json:"id"`
	AssignmentID int64      `db:"tarea_id" json:"tarea_id"`
	StudentID    int64      `db:"alumno_id" json:"alumno_id"`
	Comment      *string    `db:"comentario" json:"comentario,omitempty"`
	FileName     string     `db:"nombre_archivo" json:"nombre_archivo"`
	FilePath     string     `db:"ruta_archivo" json:"-"`
	FileType     string     `db:"tipo_archivo" json:"tipo_archivo"`
	FileSize     int64      `db:"tamano_archivo" json:"tamano_archivo"`
	SubmittedAt  time.Time  `db:"fecha_entrega" json:"fecha_entrega"`
	Grade        *float64   `db:"calificacion" json:"calificacion,omitempty"`
	Feedback     *string    `db:"retroalimentacion" json:"retroalimentacion,omitempty"`
	GraderID     *int64     `db:"profesor_id" json:"profesor_id,omitempty"`
	GradedAt     *time.Time `db:"fecha_calificacion" json:"fecha_calificacion,omitempty"`
}

// Graded reports whether the submission carries a grade.
func (s *Submission) Graded() bool {
	return s.Grade != nil
}

// SubmissionFile is the inbound file payload for a create operation.
type SubmissionFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}
