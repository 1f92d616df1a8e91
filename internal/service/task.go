package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jaekwang-park/agenda-api/internal/agenda"
	"github.com/jaekwang-park/agenda-api/internal/model"
	"github.com/jaekwang-park/agenda-api/internal/repository"
)

// CreateTaskInput carries dates as YYYY-MM-DD strings. Set DueDate for a
// one-off task or Rule for a recurring one.
type CreateTaskInput struct {
	Title     string
	Notes     string
	Priority  *int
	DueDate   *string
	Rule      *string
	StartDate *string
}

// UpdateTaskInput changes only the fields that are set. Setting DueDate turns
// the task into a one-off, setting Rule turns it into a recurring task.
type UpdateTaskInput struct {
	Title     *string
	Notes     *string
	Priority  *int
	DueDate   *string
	Rule      *string
	StartDate *string
}

type TaskService struct {
	repo  repository.TaskRepository
	cache SnapshotInvalidator
	today TodayFunc
}

func NewTaskService(repo repository.TaskRepository, cache SnapshotInvalidator, today TodayFunc) *TaskService {
	if cache == nil {
		cache = nopInvalidator{}
	}
	return &TaskService{repo: repo, cache: cache, today: today}
}

func (s *TaskService) Create(ctx context.Context, userID string, input CreateTaskInput) (model.Task, error) {
	payload, err := s.payload(userID, input.Title, input.Notes, input.Priority, input.DueDate, input.Rule, input.StartDate)
	if err != nil {
		return model.Task{}, err
	}

	task, err := agenda.NormalizeTask(payload)
	if err != nil {
		return model.Task{}, err
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	s.cache.Invalidate(ctx, userID)
	return created, nil
}

func (s *TaskService) GetByID(ctx context.Context, userID, taskID string) (model.Task, error) {
	task, err := s.repo.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, params model.TaskListParams) ([]model.Task, error) {
	if params.Kind != nil && !params.Kind.IsValid() {
		return nil, fmt.Errorf("%w: kind must be one_off or recurring", ErrInvalidInput)
	}

	tasks, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Update(ctx context.Context, userID, taskID string, input UpdateTaskInput) (model.Task, error) {
	existing, err := s.GetByID(ctx, userID, taskID)
	if err != nil {
		return model.Task{}, err
	}

	title := existing.Title
	if input.Title != nil {
		title = *input.Title
	}
	notes := existing.Notes
	if input.Notes != nil {
		notes = *input.Notes
	}
	priority := existing.Priority
	if input.Priority != nil {
		priority = *input.Priority
	}

	var dueDate, rule, startDate *string
	if existing.DueDate != nil {
		v := existing.DueDate.String()
		dueDate = &v
	}
	if existing.IsRecurring() {
		r, start := existing.Rule, existing.StartDate.String()
		rule, startDate = &r, &start
	}
	switch {
	case input.DueDate != nil && input.Rule != nil:
		dueDate, rule = input.DueDate, input.Rule
	case input.DueDate != nil:
		dueDate, rule, startDate = input.DueDate, nil, nil
	case input.Rule != nil:
		dueDate, rule = nil, input.Rule
	}
	if input.StartDate != nil {
		startDate = input.StartDate
	}

	payload, err := s.payload(userID, title, notes, &priority, dueDate, rule, startDate)
	if err != nil {
		return model.Task{}, err
	}
	task, err := agenda.NormalizeTask(payload)
	if err != nil {
		return model.Task{}, err
	}
	task.ID = existing.ID
	task.CreatedAt = existing.CreatedAt
	if task.Kind == model.TaskKindOneOff && existing.Kind == model.TaskKindOneOff {
		task.IsDone = existing.IsDone
	}

	updated, err := s.repo.Update(ctx, task)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	s.cache.Invalidate(ctx, userID)
	return updated, nil
}

// SetDone marks a one-off task as completed or reopens it. Recurring tasks
// carry no completion state.
func (s *TaskService) SetDone(ctx context.Context, userID, taskID string, done bool) (model.Task, error) {
	existing, err := s.GetByID(ctx, userID, taskID)
	if err != nil {
		return model.Task{}, err
	}
	if existing.IsRecurring() {
		return model.Task{}, fmt.Errorf("%w: recurring tasks cannot be marked done", ErrInvalidInput)
	}

	existing.IsDone = done
	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	s.cache.Invalidate(ctx, userID)
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if err := s.repo.Delete(ctx, userID, taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.cache.Invalidate(ctx, userID)
	return nil
}

// payload parses the date strings of a request. A recurring task without a
// start date is anchored on today.
func (s *TaskService) payload(userID, title, notes string, priority *int, due, rule, start *string) (agenda.TaskPayload, error) {
	dueDate, err := parseDate("due_date", due)
	if err != nil {
		return agenda.TaskPayload{}, err
	}
	startDate, err := parseDate("start_date", start)
	if err != nil {
		return agenda.TaskPayload{}, err
	}
	if rule != nil && startDate == nil && dueDate == nil {
		today := s.today()
		startDate = &today
	}

	return agenda.TaskPayload{
		UserID:    userID,
		Title:     title,
		Notes:     notes,
		Priority:  priority,
		DueDate:   dueDate,
		Rule:      rule,
		StartDate: startDate,
	}, nil
}
