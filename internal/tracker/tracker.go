// Package tracker manages sprints and their tasks, persisted as one
// serialized collection in a slot store.
//
// Sprints and tasks carry generated identifiers, so deleting an item never
// shifts the address of another one. Every mutation writes the whole
// collection back to the slot before it becomes visible.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"proyectos/internal/models"
	"proyectos/internal/storage/slot"
)

// DateLayout is the format of sprint and task dates.
const DateLayout = "2006-01-02"

var (
	ErrSprintNotFound  = errors.New("sprint not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidCount    = errors.New("sprint count must be at least 1")
	ErrInvalidDate     = errors.New("date must use the YYYY-MM-DD format")
	ErrEndBeforeStart  = errors.New("end date cannot be before the start date")
	ErrSprintNotReady  = errors.New("sprint needs at least one task and every task completed")
	ErrSprintCompleted = errors.New("sprint is already completed")
	ErrTaskCompleted   = errors.New("task is already completed")
	ErrInvalidStatus   = errors.New("unknown task status")
)

// Tracker owns the sprint collection loaded from a slot.
type Tracker struct {
	mu       sync.Mutex
	store    slot.Store
	logger   *slog.Logger
	newID    func() string
	sprints  []models.Sprint
	index    map[string]int
	selected map[string]struct{}
}

// Open loads the collection from store. An empty slot yields an empty tracker.
// Items saved without identifiers are assigned fresh ones.
func Open(ctx context.Context, store slot.Store, logger *slog.Logger) (*Tracker, error) {
	if store == nil {
		return nil, fmt.Errorf("tracker: store is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	t := &Tracker{
		store:    store,
		logger:   logger,
		newID:    uuid.NewString,
		selected: map[string]struct{}{},
	}

	data, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("tracker: load: %w", err)
	}

	var sprints []models.Sprint
	if len(data) > 0 {
		if err := json.Unmarshal(data, &sprints); err != nil {
			return nil, fmt.Errorf("tracker: decode: %w", err)
		}
	}
	for i := range sprints {
		if sprints[i].ID == "" {
			sprints[i].ID = t.newID()
		}
		if sprints[i].Tasks == nil {
			sprints[i].Tasks = []models.Task{}
		}
		for j := range sprints[i].Tasks {
			task := &sprints[i].Tasks[j]
			if task.ID == "" {
				task.ID = t.newID()
			}
			if task.Status == "" {
				task.Status = models.StatusPending
			} else if status, ok := models.ParseTaskStatus(string(task.Status)); ok {
				task.Status = status
			}
		}
	}
	t.setSprints(sprints)

	logger.Debug("tracker loaded", slog.Int("sprints", len(sprints)))
	return t, nil
}

// Sprints returns a copy of the collection in display order.
func (t *Tracker) Sprints() []models.Sprint {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneSprints(t.sprints)
}

// Sprint returns a copy of one sprint.
func (t *Tracker) Sprint(id string) (models.Sprint, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.index[id]
	if !ok {
		return models.Sprint{}, ErrSprintNotFound
	}
	return cloneSprint(t.sprints[i]), nil
}

// AddSprints appends n empty sprints, numbered after the current count.
func (t *Tracker) AddSprints(ctx context.Context, n int) ([]models.Sprint, error) {
	if n < 1 {
		return nil, ErrInvalidCount
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := cloneSprints(t.sprints)
	first := len(next) + 1
	added := make([]models.Sprint, 0, n)
	for i := 0; i < n; i++ {
		s := models.Sprint{
			ID:    t.newID(),
			Name:  fmt.Sprintf("Sprint %d", first+i),
			Tasks: []models.Task{},
		}
		next = append(next, s)
		added = append(added, cloneSprint(s))
	}

	if err := t.commit(ctx, next); err != nil {
		return nil, err
	}
	return added, nil
}

// Progress is the share of completed sprints in percent; 0 without sprints.
func (t *Tracker) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.sprints) == 0 {
		return 0
	}
	done := 0
	for _, s := range t.sprints {
		if s.Completed {
			done++
		}
	}
	return float64(done) / float64(len(t.sprints)) * 100
}

// RoundedProgress is Progress rounded to the nearest whole percent.
func (t *Tracker) RoundedProgress() int {
	return int(math.Round(t.Progress()))
}

// ToggleSelection adds or removes a sprint from the multi-select set.
func (t *Tracker) ToggleSelection(id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.index[id]; !ok {
		return false, ErrSprintNotFound
	}
	if _, ok := t.selected[id]; ok {
		delete(t.selected, id)
		return false, nil
	}
	t.selected[id] = struct{}{}
	return true, nil
}

// Selected lists the selected sprint ids in display order.
func (t *Tracker) Selected() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := []string{}
	for _, s := range t.sprints {
		if _, ok := t.selected[s.ID]; ok {
			out = append(out, s.ID)
		}
	}
	return out
}

// DeleteSelected removes every selected sprint and clears the selection.
// Remaining sprints keep their names.
func (t *Tracker) DeleteSelected(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := make([]models.Sprint, 0, len(t.sprints))
	for _, s := range t.sprints {
		if _, ok := t.selected[s.ID]; !ok {
			next = append(next, cloneSprint(s))
		}
	}
	removed := len(t.sprints) - len(next)

	if err := t.commit(ctx, next); err != nil {
		return 0, err
	}
	t.selected = map[string]struct{}{}
	return removed, nil
}

// SetStartDate sets or clears (empty string) a sprint's start date.
func (t *Tracker) SetStartDate(ctx context.Context, id, date string) error {
	if _, err := parseDate(date); err != nil {
		return err
	}
	return t.update(ctx, id, func(s *models.Sprint) error {
		s.StartDate = date
		return nil
	})
}

// SetEndDate sets a sprint's end date, rejecting one before the current start date.
func (t *Tracker) SetEndDate(ctx context.Context, id, date string) error {
	end, err := parseDate(date)
	if err != nil {
		return err
	}
	return t.update(ctx, id, func(s *models.Sprint) error {
		start, _ := parseDate(s.StartDate)
		if !end.IsZero() && !start.IsZero() && end.Before(start) {
			return ErrEndBeforeStart
		}
		s.EndDate = date
		return nil
	})
}

// CompleteSprint marks a sprint completed once all of its tasks are.
// There is no way back to pending.
func (t *Tracker) CompleteSprint(ctx context.Context, id string) error {
	return t.update(ctx, id, func(s *models.Sprint) error {
		if s.Completed {
			return ErrSprintCompleted
		}
		if !s.Ready() {
			return ErrSprintNotReady
		}
		s.Completed = true
		return nil
	})
}

// update applies fn to a copy of one sprint and persists the result.
// A failing fn leaves the collection untouched.
func (t *Tracker) update(ctx context.Context, id string, fn func(s *models.Sprint) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, ok := t.index[id]
	if !ok {
		return ErrSprintNotFound
	}
	next := cloneSprints(t.sprints)
	if err := fn(&next[i]); err != nil {
		return err
	}
	return t.commit(ctx, next)
}

// commit saves next and makes it current. Callers hold t.mu.
func (t *Tracker) commit(ctx context.Context, next []models.Sprint) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("tracker: encode: %w", err)
	}
	if err := t.store.Save(ctx, data); err != nil {
		t.logger.Error("tracker save failed", slog.String("error", err.Error()))
		return fmt.Errorf("tracker: save: %w", err)
	}
	t.setSprints(next)
	return nil
}

func (t *Tracker) setSprints(sprints []models.Sprint) {
	if sprints == nil {
		sprints = []models.Sprint{}
	}
	t.sprints = sprints
	t.index = make(map[string]int, len(sprints))
	for i, s := range sprints {
		t.index[s.ID] = i
	}
	for id := range t.selected {
		if _, ok := t.index[id]; !ok {
			delete(t.selected, id)
		}
	}
}

func parseDate(date string) (time.Time, error) {
	if date == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func cloneSprint(s models.Sprint) models.Sprint {
	tasks := make([]models.Task, len(s.Tasks))
	copy(tasks, s.Tasks)
	s.Tasks = tasks
	return s
}

func cloneSprints(in []models.Sprint) []models.Sprint {
	out := make([]models.Sprint, len(in))
	for i, s := range in {
		out[i] = cloneSprint(s)
	}
	return out
}
