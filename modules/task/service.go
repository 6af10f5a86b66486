package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/google/uuid"
)

var (
	// ErrTitleRequired is returned when a task is created without a title.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidStatus is returned when a status value is not one of the
	// known states.
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrNotOwner is returned when the caller does not own the task it is
	// trying to mutate or delete.
	ErrNotOwner = errors.New("not authorized to access this task")
)

// Patch describes a partial update to a task. Nil fields are left untouched.
// An empty Title or Status is treated as absent; an empty Description is an
// explicit request to clear the field.
type Patch struct {
	Title       *string
	Description *string
	Status      *string
}

// Service implements the owner-scoped task operations. Every method takes
// the resolved principal id and refuses to touch tasks the principal does
// not own.
type Service struct {
	repo *Repository
}

// NewService creates a new task Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// List returns every task owned by ownerID, newest first.
func (s *Service) List(_ context.Context, ownerID string) ([]*domain.Task, error) {
	return s.repo.FindByOwner(ownerID)
}

// Create validates the input and persists a new task owned by ownerID.
// An empty status defaults to pending.
func (s *Service) Create(_ context.Context, ownerID, title, description, status string) (*domain.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}

	st := domain.StatusPending
	if status != "" {
		st = domain.Status(status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
	}

	now := time.Now()
	task := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Status:      st,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies patch to the task identified by id. Ownership is verified
// before any field is touched.
func (s *Service) Update(_ context.Context, ownerID, id string, patch Patch) (*domain.Task, error) {
	task, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	if patch.Status != nil && *patch.Status != "" && !domain.Status(*patch.Status).Valid() {
		return nil, ErrInvalidStatus
	}

	if patch.Title != nil && *patch.Title != "" {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil && *patch.Status != "" {
		task.Status = domain.Status(*patch.Status)
	}

	if err := s.repo.Save(task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	return task, nil
}

// Delete removes the task identified by id after verifying ownership.
// Deleting an id that no longer exists yields ErrTaskNotFound.
func (s *Service) Delete(_ context.Context, ownerID, id string) error {
	task, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if task.OwnerID != ownerID {
		return ErrNotOwner
	}
	return s.repo.Delete(task.ID)
}
