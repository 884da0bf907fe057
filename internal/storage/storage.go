// Package storage defines the project store contract shared by all backends.
package storage

import (
	"context"
	"errors"
	"strings"

	"proyectos/internal/models"
)

// ErrNotFound is returned when the referenced project does not exist.
var ErrNotFound = errors.New("project not found")

// ValidationError reports a candidate project that fails the schema.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ProjectStore persists project records.
type ProjectStore interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, p models.Project) (models.Project, error)
	GetProject(ctx context.Context, id string) (models.Project, error)
	UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (models.Project, error)
	DeleteProject(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// Validate checks the required project fields.
func Validate(p models.Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "nombre", Message: "is required"}
	}
	if strings.TrimSpace(p.Description) == "" {
		return &ValidationError{Field: "descripcion", Message: "is required"}
	}
	return nil
}
