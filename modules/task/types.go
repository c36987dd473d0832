package task

import (
	"context"
	"time"

	domain "github.com/razi5474/Task-manager/domain/task"
)

// CreateTaskRequest is the request for creating a task. OwnerID is the
// authenticated caller's identity, never a client-supplied value.
type CreateTaskRequest struct {
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// ListTasksRequest is the request for listing an owner's tasks.
type ListTasksRequest struct {
	OwnerID string `json:"owner_id"`
	Search  string `json:"search,omitempty"`
	Status  string `json:"status,omitempty"`
	Order   string `json:"order,omitempty"`
}

// ListTasksResponse is the response for listing tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// UpdateTaskRequest is the request for partially updating a task.
type UpdateTaskRequest struct {
	OwnerID string       `json:"owner_id"`
	TaskID  string       `json:"task_id"`
	Patch   domain.Patch `json:"patch"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	OwnerID string `json:"owner_id"`
	TaskID  string `json:"task_id"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// MoveTaskRequest is the request for moving a task within the owner's
// manual ordering.
type MoveTaskRequest struct {
	OwnerID  string `json:"owner_id"`
	TaskID   string `json:"task_id"`
	Position int    `json:"position"`
}

// MoveTaskResponse is the response for a move: the owner's tasks in their
// new manual order.
type MoveTaskResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// CacheStatsRequest is the request for cache statistics.
type CacheStatsRequest struct{}

// CacheStatsResponse is the response for cache statistics.
type CacheStatsResponse struct {
	Enabled   bool    `json:"enabled"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Sets      uint64  `json:"sets"`
	Deletes   uint64  `json:"deletes"`
	Errors    uint64  `json:"errors"`
	HitRate   float64 `json:"hit_rate"`
	TotalGets uint64  `json:"total_gets"`
}

// TaskResponse is the response for a single task.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	SortRank    int64      `json:"sort_rank"`
	OwnerID     string     `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskPort defines the interface for task operations. This is the contract
// the HTTP API uses to reach the core domain.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	ListTasks(ctx context.Context, req *ListTasksRequest) (*ListTasksResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, ownerID, taskID string) error
	MoveTask(ctx context.Context, req *MoveTaskRequest) (*MoveTaskResponse, error)
	CacheStats(ctx context.Context) (*CacheStatsResponse, error)
}
