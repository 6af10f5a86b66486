package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort defines the task operations other modules use. The HTTP API
// depends on this interface, not on the module itself.
type TaskPort interface {
	List(ctx context.Context, req ListTasksRequest) (ListTasksResponse, error)
	Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	Update(ctx context.Context, req UpdateTaskRequest) (TaskResponse, error)
	Delete(ctx context.Context, req DeleteTaskRequest) (DeleteTaskResponse, error)
}

// TaskAdapter implements TaskPort over the task module's service container.
type TaskAdapter struct {
	container mono.ServiceContainer
}

// Compile-time interface check.
var _ TaskPort = (*TaskAdapter)(nil)

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	return &TaskAdapter{container: container}
}

// List returns the caller's tasks, newest first.
func (a *TaskAdapter) List(ctx context.Context, req ListTasksRequest) (ListTasksResponse, error) {
	var resp ListTasksResponse
	if err := call(a, ctx, "list", &req, &resp); err != nil {
		return ListTasksResponse{}, err
	}
	return resp, nil
}

// Create creates a task owned by the caller.
func (a *TaskAdapter) Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error) {
	var resp TaskResponse
	if err := call(a, ctx, "create", &req, &resp); err != nil {
		return TaskResponse{}, err
	}
	return resp, nil
}

// Update applies a partial update to one of the caller's tasks.
func (a *TaskAdapter) Update(ctx context.Context, req UpdateTaskRequest) (TaskResponse, error) {
	var resp TaskResponse
	if err := call(a, ctx, "update", &req, &resp); err != nil {
		return TaskResponse{}, err
	}
	return resp, nil
}

// Delete removes one of the caller's tasks.
func (a *TaskAdapter) Delete(ctx context.Context, req DeleteTaskRequest) (DeleteTaskResponse, error) {
	var resp DeleteTaskResponse
	if err := call(a, ctx, "delete", &req, &resp); err != nil {
		return DeleteTaskResponse{}, err
	}
	return resp, nil
}

func call[T1, T2 any](a *TaskAdapter, ctx context.Context, service string, req T1, resp *T2) error {
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}
