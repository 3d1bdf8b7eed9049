package service

import (
	"context"
	"errors"
	"fmt"

	"taskmanager/internal/common"
	"taskmanager/internal/domain/model"
	"taskmanager/internal/domain/repository"

	"github.com/google/uuid"
)

type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, userRepo: userRepo}
}

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
}

// UpdateTaskRequest uses pointers so an absent field keeps its stored value
// while an empty string can still clear the assignee.
type UpdateTaskRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Status      *model.TaskStatus `json:"status"`
	AssignedTo  *string           `json:"assignedTo"`
}

type TaskResponse struct {
	Message string      `json:"message"`
	Task    *model.Task `json:"task"`
}

func (s *TaskService) checkAssignee(ctx context.Context, id string) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("assignee %q does not exist: %w", id, common.ErrValidation)
		}
		return fmt.Errorf("failed to check assignee: %w", err)
	}
	return nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask records the caller as creator. The creator comes from the session
// claims, never from the request body.
func (s *TaskService) CreateTask(ctx context.Context, creatorID string, req CreateTaskRequest) (*model.Task, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title is required: %w", common.ErrValidation)
	}

	var assignedTo *string
	if req.AssignedTo != "" {
		if err := s.checkAssignee(ctx, req.AssignedTo); err != nil {
			return nil, err
		}
		assignedTo = &req.AssignedTo
	}

	rec := &repository.TaskRecord{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Status:      model.StatusOpen,
		AssignedTo:  assignedTo,
		CreatedBy:   creatorID,
	}
	if err := s.taskRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	task, err := s.taskRepo.FindByID(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created task: %w", err)
	}
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*model.Task, error) {
	existing, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rec := &repository.TaskRecord{
		ID:          existing.ID,
		Title:       existing.Title,
		Description: existing.Description,
		Status:      existing.Status,
	}
	if existing.AssignedTo != nil {
		assigned := existing.AssignedTo.ID
		rec.AssignedTo = &assigned
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("title is required: %w", common.ErrValidation)
		}
		rec.Title = *req.Title
	}
	if req.Description != nil {
		rec.Description = *req.Description
	}
	if req.Status != nil {
		if !model.ValidTaskStatus(*req.Status) {
			return nil, fmt.Errorf("invalid status %q: %w", *req.Status, common.ErrValidation)
		}
		rec.Status = *req.Status
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			rec.AssignedTo = nil
		} else {
			if err := s.checkAssignee(ctx, *req.AssignedTo); err != nil {
				return nil, err
			}
			rec.AssignedTo = req.AssignedTo
		}
	}

	if err := s.taskRepo.Update(ctx, rec); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load updated task: %w", err)
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return s.taskRepo.Delete(ctx, id)
}
