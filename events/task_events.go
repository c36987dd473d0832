package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskCreatedEvent is emitted when a new task is created.
type TaskCreatedEvent struct {
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.task.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"task", "TaskCreated", "v1",
)

// TaskCompletedEvent is emitted when a task moves to the completed status.
type TaskCompletedEvent struct {
	TaskID      string    `json:"task_id"`
	OwnerID     string    `json:"owner_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// TaskCompletedV1 is the typed event definition for task completion.
// Subject: events.task.v1.task-completed
var TaskCompletedV1 = helper.EventDefinition[TaskCompletedEvent](
	"task", "TaskCompleted", "v1",
)

// TaskReopenedEvent is emitted when a completed task goes back to pending.
type TaskReopenedEvent struct {
	TaskID     string    `json:"task_id"`
	OwnerID    string    `json:"owner_id"`
	ReopenedAt time.Time `json:"reopened_at"`
}

// TaskReopenedV1 is the typed event definition for reopening a task.
// Subject: events.task.v1.task-reopened
var TaskReopenedV1 = helper.EventDefinition[TaskReopenedEvent](
	"task", "TaskReopened", "v1",
)

// TaskDeletedEvent is emitted when a task is deleted.
type TaskDeletedEvent struct {
	TaskID    string    `json:"task_id"`
	OwnerID   string    `json:"owner_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TaskDeletedV1 is the typed event definition for task deletion.
// Subject: events.task.v1.task-deleted
var TaskDeletedV1 = helper.EventDefinition[TaskDeletedEvent](
	"task", "TaskDeleted", "v1",
)

// TaskReorderedEvent is emitted when a task is moved within its owner's
// manual ordering.
type TaskReorderedEvent struct {
	TaskID   string `json:"task_id"`
	OwnerID  string `json:"owner_id"`
	Position int    `json:"position"`
}

// TaskReorderedV1 is the typed event definition for manual reordering.
// Subject: events.task.v1.task-reordered
var TaskReorderedV1 = helper.EventDefinition[TaskReorderedEvent](
	"task", "TaskReordered", "v1",
)
