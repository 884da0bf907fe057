package tracker

import (
	"context"
	"errors"

	"proyectos/internal/models"
)

// TaskForm holds the editable fields of a task.
type TaskForm struct {
	Name        string
	Description string
	DueDate     string
	Status      models.TaskStatus
	Role        string
}

// Detail edits the tasks of one sprint. An edit is started with BeginEdit,
// which returns the task's fields, and committed by the next Submit.
type Detail struct {
	t        *Tracker
	sprintID string
	editing  string
}

// Detail opens the task editor for a sprint.
func (t *Tracker) Detail(sprintID string) (*Detail, error) {
	if _, err := t.Sprint(sprintID); err != nil {
		return nil, err
	}
	return &Detail{t: t, sprintID: sprintID}, nil
}

// Sprint returns the current state of the sprint.
func (d *Detail) Sprint() (models.Sprint, error) {
	return d.t.Sprint(d.sprintID)
}

// Tasks returns the sprint's tasks in order.
func (d *Detail) Tasks() ([]models.Task, error) {
	s, err := d.Sprint()
	if err != nil {
		return nil, err
	}
	return s.Tasks, nil
}

// Editing returns the id of the task being edited, if any.
func (d *Detail) Editing() (string, bool) {
	return d.editing, d.editing != ""
}

// BeginEdit returns the task's fields and marks it as the one the next Submit replaces.
func (d *Detail) BeginEdit(taskID string) (TaskForm, error) {
	s, err := d.Sprint()
	if err != nil {
		return TaskForm{}, err
	}
	if s.Completed {
		return TaskForm{}, ErrSprintCompleted
	}
	i := taskIndex(s.Tasks, taskID)
	if i < 0 {
		return TaskForm{}, ErrTaskNotFound
	}
	task := s.Tasks[i]
	d.editing = taskID
	return TaskForm{
		Name:        task.Name,
		Description: task.Description,
		DueDate:     task.DueDate,
		Status:      task.Status,
		Role:        task.Role,
	}, nil
}

// CancelEdit drops the pending edit.
func (d *Detail) CancelEdit() {
	d.editing = ""
}

// Submit appends a new task, or replaces the fields of the task being edited.
// Editing never changes a task's completion flag, even when the status is
// set to Finalizado by hand; only CompleteTask does that.
func (d *Detail) Submit(ctx context.Context, form TaskForm) (models.Task, error) {
	if form.Status == "" {
		form.Status = models.StatusPending
	}
	if _, ok := models.ValidTaskStatuses[form.Status]; !ok {
		return models.Task{}, ErrInvalidStatus
	}
	if _, err := parseDate(form.DueDate); err != nil {
		return models.Task{}, err
	}

	editing := d.editing
	var result models.Task
	err := d.t.update(ctx, d.sprintID, func(s *models.Sprint) error {
		if s.Completed {
			return ErrSprintCompleted
		}
		if editing == "" {
			result = models.Task{
				ID:          d.t.newID(),
				Name:        form.Name,
				Description: form.Description,
				DueDate:     form.DueDate,
				Status:      form.Status,
				Role:        form.Role,
			}
			s.Tasks = append(s.Tasks, result)
			return nil
		}

		i := taskIndex(s.Tasks, editing)
		if i < 0 {
			return ErrTaskNotFound
		}
		task := &s.Tasks[i]
		task.Name = form.Name
		task.Description = form.Description
		task.DueDate = form.DueDate
		task.Status = form.Status
		task.Role = form.Role
		result = *task
		return nil
	})
	if errors.Is(err, ErrTaskNotFound) {
		d.editing = ""
	}
	if err != nil {
		return models.Task{}, err
	}
	d.editing = ""
	return result, nil
}

// CompleteTask sets the task to Finalizado and marks it completed. One way only.
func (d *Detail) CompleteTask(ctx context.Context, taskID string) error {
	return d.t.update(ctx, d.sprintID, func(s *models.Sprint) error {
		if s.Completed {
			return ErrSprintCompleted
		}
		i := taskIndex(s.Tasks, taskID)
		if i < 0 {
			return ErrTaskNotFound
		}
		if s.Tasks[i].Completed {
			return ErrTaskCompleted
		}
		s.Tasks[i].Status = models.StatusFinished
		s.Tasks[i].Completed = true
		return nil
	})
}

// DeleteTask removes a task from the sprint.
func (d *Detail) DeleteTask(ctx context.Context, taskID string) error {
	err := d.t.update(ctx, d.sprintID, func(s *models.Sprint) error {
		if s.Completed {
			return ErrSprintCompleted
		}
		i := taskIndex(s.Tasks, taskID)
		if i < 0 {
			return ErrTaskNotFound
		}
		s.Tasks = append(s.Tasks[:i], s.Tasks[i+1:]...)
		return nil
	})
	if err == nil && d.editing == taskID {
		d.editing = ""
	}
	return err
}

// CompleteSprint completes the sprint this editor is bound to.
func (d *Detail) CompleteSprint(ctx context.Context) error {
	return d.t.CompleteSprint(ctx, d.sprintID)
}

func taskIndex(tasks []models.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
