package task

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	domain "github.com/razi5474/Task-manager/domain/task"
	"github.com/razi5474/Task-manager/events"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

var (
	// ErrTitleRequired is returned when a task title is empty or whitespace.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidStatus is returned when a status is outside the enumeration.
	ErrInvalidStatus = errors.New("invalid status: must be pending or completed")
)

// createTask handles the create-task service request. The owner comes from
// the authenticated caller; status always starts pending.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return TaskResponse{}, ErrTitleRequired
	}

	now := time.Now()
	newTask := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: req.Description,
		Status:      domain.StatusPending,
		DueDate:     req.DueDate,
		OwnerID:     req.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.repo.Create(ctx, newTask); err != nil {
		return TaskResponse{}, fmt.Errorf("failed to save task: %w", err)
	}

	m.invalidateOwner(ctx, req.OwnerID)

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    newTask.ID,
			Title:     newTask.Title,
			OwnerID:   newTask.OwnerID,
			CreatedAt: newTask.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			// Event publishing is best-effort; log but don't fail the operation
			log.Printf("[task] Warning: failed to publish TaskCreated event for task %s: %v", newTask.ID, err)
		}
	}

	return toTaskResponse(newTask), nil
}

// listTasks handles the list-tasks service request, consulting the Redis
// cache first when one is wired.
func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	filter := ListFilter{
		Search: req.Search,
		Order:  req.Order,
	}
	if req.Status != "" {
		status := domain.Status(req.Status)
		if !status.Valid() {
			return ListTasksResponse{}, ErrInvalidStatus
		}
		filter.Status = status
	}

	cacheKey := listCacheKey(req.OwnerID, filter)
	if m.cache != nil {
		var cached ListTasksResponse
		hit, err := m.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			log.Printf("[task] Warning: cache read failed, falling through to database: %v", err)
		} else if hit {
			return cached, nil
		}
	}

	tasks, err := m.repo.List(ctx, req.OwnerID, filter)
	if err != nil {
		return ListTasksResponse{}, err
	}

	response := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for _, t := range tasks {
		response.Tasks = append(response.Tasks, toTaskResponse(t))
	}

	if m.cache != nil {
		if err := m.cache.Set(ctx, cacheKey, &response); err != nil {
			log.Printf("[task] Warning: cache write failed: %v", err)
		}
	}

	return response, nil
}

// updateTask handles the update-task service request. Only the fields
// present in the patch change; ownership and non-existence collapse into a
// single not-found outcome.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.Patch.Title != nil && strings.TrimSpace(*req.Patch.Title) == "" {
		return TaskResponse{}, ErrTitleRequired
	}
	if req.Patch.Status != nil && !domain.Status(*req.Patch.Status).Valid() {
		return TaskResponse{}, ErrInvalidStatus
	}

	current, err := m.repo.FindByID(ctx, req.OwnerID, req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}

	if req.Patch.Empty() {
		return toTaskResponse(current), nil
	}

	prevStatus := current.Status
	if req.Patch.Title != nil {
		current.Title = strings.TrimSpace(*req.Patch.Title)
	}
	if req.Patch.Description != nil {
		current.Description = *req.Patch.Description
	}
	if req.Patch.Status != nil {
		current.Status = domain.Status(*req.Patch.Status)
	}
	if req.Patch.DueDate.Set {
		current.DueDate = req.Patch.DueDate.Value
	}
	current.UpdatedAt = time.Now()

	if err := m.repo.Save(ctx, current); err != nil {
		return TaskResponse{}, fmt.Errorf("failed to update task: %w", err)
	}

	m.invalidateOwner(ctx, req.OwnerID)
	m.publishStatusChange(prevStatus, current)

	return toTaskResponse(current), nil
}

// deleteTask handles the delete-task service request.
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.repo.Delete(ctx, req.OwnerID, req.TaskID); err != nil {
		return DeleteTaskResponse{Deleted: false}, err
	}

	m.invalidateOwner(ctx, req.OwnerID)

	if m.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    req.TaskID,
			OwnerID:   req.OwnerID,
			DeletedAt: time.Now(),
		}
		if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskDeleted event for task %s: %v", req.TaskID, err)
		}
	}

	return DeleteTaskResponse{Deleted: true}, nil
}

// moveTask handles the move-task service request: splice the task to the
// target position in the owner's manual ordering.
func (m *TaskModule) moveTask(ctx context.Context, req MoveTaskRequest, _ *mono.Msg) (MoveTaskResponse, error) {
	ordered, err := m.repo.Move(ctx, req.OwnerID, req.TaskID, req.Position)
	if err != nil {
		return MoveTaskResponse{}, err
	}

	m.invalidateOwner(ctx, req.OwnerID)

	if m.eventBus != nil {
		event := events.TaskReorderedEvent{
			TaskID:   req.TaskID,
			OwnerID:  req.OwnerID,
			Position: req.Position,
		}
		if err := events.TaskReorderedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskReordered event for task %s: %v", req.TaskID, err)
		}
	}

	response := MoveTaskResponse{Tasks: make([]TaskResponse, 0, len(ordered))}
	for _, t := range ordered {
		response.Tasks = append(response.Tasks, toTaskResponse(t))
	}
	return response, nil
}

// cacheStats handles the cache-stats service request.
func (m *TaskModule) cacheStats(_ context.Context, _ CacheStatsRequest, _ *mono.Msg) (CacheStatsResponse, error) {
	if m.cache == nil {
		return CacheStatsResponse{Enabled: false}, nil
	}

	snapshot := m.cache.GetStats()
	return CacheStatsResponse{
		Enabled:   true,
		Hits:      snapshot.Hits,
		Misses:    snapshot.Misses,
		Sets:      snapshot.Sets,
		Deletes:   snapshot.Deletes,
		Errors:    snapshot.Errors,
		HitRate:   snapshot.HitRate,
		TotalGets: snapshot.TotalGets,
	}, nil
}

// publishStatusChange emits TaskCompleted or TaskReopened when an update
// crosses the status boundary.
func (m *TaskModule) publishStatusChange(prev domain.Status, t *domain.Task) {
	if m.eventBus == nil || prev == t.Status {
		return
	}

	switch t.Status {
	case domain.StatusCompleted:
		event := events.TaskCompletedEvent{
			TaskID:      t.ID,
			OwnerID:     t.OwnerID,
			CompletedAt: t.UpdatedAt,
		}
		if err := events.TaskCompletedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskCompleted event for task %s: %v", t.ID, err)
		}
	case domain.StatusPending:
		event := events.TaskReopenedEvent{
			TaskID:     t.ID,
			OwnerID:    t.OwnerID,
			ReopenedAt: t.UpdatedAt,
		}
		if err := events.TaskReopenedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskReopened event for task %s: %v", t.ID, err)
		}
	}
}

// invalidateOwner drops every cached list for the owner after a mutation.
func (m *TaskModule) invalidateOwner(ctx context.Context, ownerID string) {
	if m.cache == nil {
		return
	}
	if err := m.cache.DeletePattern(ctx, ownerID+":*"); err != nil {
		log.Printf("[task] Warning: cache invalidation failed for owner %s: %v", ownerID, err)
	}
}

// listCacheKey builds the cache key for a list query. Keys start with the
// owner ID so a mutation can invalidate all of an owner's lists at once.
func listCacheKey(ownerID string, filter ListFilter) string {
	order := filter.Order
	if order == "" {
		order = OrderCreated
	}
	return fmt.Sprintf("%s:%s:%s:%s", ownerID, order, filter.Status, filter.Search)
}

// toTaskResponse converts a domain Task to a TaskResponse.
func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		SortRank:    t.SortRank,
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
