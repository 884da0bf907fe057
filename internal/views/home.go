// Package views holds the state behind the home and create-project pages.
package views

import (
	"context"
	"fmt"
	"log/slog"

	"proyectos/internal/client"
	"proyectos/internal/models"
)

// ActionError is returned when an API-backed action does not succeed.
type ActionError struct {
	Action  string
	Reason  client.Reason
	Message string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s failed (%s): %s", e.Action, e.Reason, e.Message)
}

// Home lists projects and keeps the local list in sync with deletes.
type Home struct {
	api      *client.Client
	logger   *slog.Logger
	projects []models.Project
}

// NewHome creates a home view backed by api.
func NewHome(api *client.Client, logger *slog.Logger) *Home {
	if logger == nil {
		logger = slog.Default()
	}
	return &Home{api: api, logger: logger, projects: []models.Project{}}
}

// Load replaces the local list with the server's. A failed fetch leaves an empty list.
func (h *Home) Load(ctx context.Context) []models.Project {
	h.projects = h.api.ListOrEmpty(ctx)
	return h.Projects()
}

// Projects returns a copy of the current list.
func (h *Home) Projects() []models.Project {
	out := make([]models.Project, len(h.projects))
	copy(out, h.projects)
	return out
}

// Delete removes the project remotely, then drops it from the local list.
// The local list is untouched when the server call fails.
func (h *Home) Delete(ctx context.Context, id string) error {
	res := h.api.DeleteProject(ctx, id)
	if !res.OK() {
		h.logger.Warn("delete project failed", slog.String("id", id), slog.String("reason", res.Reason.String()))
		return &ActionError{Action: "delete project", Reason: res.Reason, Message: res.Message}
	}

	kept := h.projects[:0]
	for _, p := range h.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	h.projects = kept
	return nil
}
