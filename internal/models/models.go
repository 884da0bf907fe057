package models

import (
	"encoding/json"
	"strings"
)

// Project is a top-level user-created entity shown on the home page.
// JSON names follow the front end that consumes the API.
type Project struct {
	ID          string `json:"_id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Image       string `json:"imagen"`
	CreatedAt   string `json:"fecha"`
}

// MarshalJSON adds an "id" alias next to "_id".
func (p Project) MarshalJSON() ([]byte, error) {
	type plain Project
	return json.Marshal(struct {
		plain
		Alias string `json:"id"`
	}{plain: plain(p), Alias: p.ID})
}

// ProjectPatch carries the fields supplied to an update. Nil means untouched.
type ProjectPatch struct {
	Name        *string `json:"nombre"`
	Description *string `json:"descripcion"`
	Image       *string `json:"imagen"`
	CreatedAt   *string `json:"fecha"`
}

// Empty reports whether the patch changes nothing.
func (p ProjectPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Image == nil && p.CreatedAt == nil
}

// Apply returns a copy of project with the patch applied. The identifier is kept.
func (p ProjectPatch) Apply(project Project) Project {
	if p.Name != nil {
		project.Name = *p.Name
	}
	if p.Description != nil {
		project.Description = *p.Description
	}
	if p.Image != nil {
		project.Image = *p.Image
	}
	if p.CreatedAt != nil {
		project.CreatedAt = *p.CreatedAt
	}
	return project
}

// TaskStatus is the workflow state of a sprint task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pendiente"
	StatusInProgress TaskStatus = "En progreso"
	StatusUrgent     TaskStatus = "Urgente"
	StatusFinished   TaskStatus = "Finalizado"
)

// ValidTaskStatuses enumerates the statuses a task may carry.
var ValidTaskStatuses = map[TaskStatus]struct{}{
	StatusPending:    {},
	StatusInProgress: {},
	StatusUrgent:     {},
	StatusFinished:   {},
}

// ParseTaskStatus matches s against the known statuses ignoring case,
// so "pendiente" written by older boards reads as StatusPending.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	for status := range ValidTaskStatuses {
		if strings.EqualFold(string(status), strings.TrimSpace(s)) {
			return status, true
		}
	}
	return TaskStatus(s), false
}

// Task is a unit of work owned by exactly one sprint.
// JSON names match the boards saved by the browser front end.
type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"nombre"`
	Description string     `json:"descripcion"`
	DueDate     string     `json:"fecha"`
	Status      TaskStatus `json:"estado"`
	Role        string     `json:"rol"`
	Completed   bool       `json:"completada"`
}

// Sprint is a locally tracked work period holding tasks.
type Sprint struct {
	ID        string `json:"id"`
	Name      string `json:"nombre"`
	StartDate string `json:"fechaInicio"`
	EndDate   string `json:"fechaFin"`
	Tasks     []Task `json:"tareas"`
	Completed bool   `json:"completado"`
}

// Ready reports whether the sprint may be marked completed.
func (s Sprint) Ready() bool {
	if len(s.Tasks) == 0 {
		return false
	}
	for _, t := range s.Tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}

// CartItem is a line in the shopping cart demo.
type CartItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
