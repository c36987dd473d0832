package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/razi5474/Task-manager/domain/task"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a task does not exist or is owned by another
// user. The two cases are deliberately indistinguishable so callers cannot
// probe which IDs exist.
var ErrNotFound = errors.New("task not found")

// ListFilter narrows a list query. Zero values mean "no restriction".
type ListFilter struct {
	Search string
	Status domain.Status
	Order  string
}

// List orderings.
const (
	OrderCreated = "created" // created_at DESC, newest first (default)
	OrderManual  = "manual"  // sort_rank ASC, the user-arranged order
)

// Repository provides owner-scoped access to task storage using GORM.
// Every query carries an owner_id predicate; there is no unscoped path.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate runs database migrations for the tasks table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&domain.Task{})
}

// Create saves a new task, placing it at the end of the owner's manual
// ordering.
func (r *Repository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxRank int64
		row := tx.Model(&domain.Task{}).
			Where("owner_id = ?", task.OwnerID).
			Select("COALESCE(MAX(sort_rank), -1)").
			Row()
		if err := row.Scan(&maxRank); err != nil {
			return fmt.Errorf("failed to compute sort rank: %w", err)
		}
		task.SortRank = maxRank + 1

		if err := tx.Create(task).Error; err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
}

// FindByID retrieves a task by ID, but only within the owner's collection.
func (r *Repository) FindByID(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).
		First(&task, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// List retrieves the owner's tasks matching the filter. An empty result is
// an empty slice, not an error.
func (r *Repository) List(ctx context.Context, ownerID string, filter ListFilter) ([]*domain.Task, error) {
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern)
	}

	switch filter.Order {
	case OrderManual:
		query = query.Order("sort_rank ASC, created_at ASC")
	default:
		query = query.Order("created_at DESC")
	}

	tasks := make([]*domain.Task, 0)
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Save writes an updated task back. Last write wins; there is no conflict
// detection.
func (r *Repository) Save(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// Delete removes a task if and only if the owner matches.
func (r *Repository) Delete(ctx context.Context, ownerID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Task{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Move splices the task to the given position in the owner's manual
// ordering and rewrites the ranks in a single transaction, so concurrent
// moves cannot leave a partial rank set. Out-of-range positions clamp.
// Returns the owner's tasks in their new manual order.
func (r *Repository) Move(ctx context.Context, ownerID, id string, position int) ([]*domain.Task, error) {
	var ordered []*domain.Task

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tasks []*domain.Task
		if err := tx.Where("owner_id = ?", ownerID).
			Order("sort_rank ASC, created_at ASC").
			Find(&tasks).Error; err != nil {
			return fmt.Errorf("failed to load tasks: %w", err)
		}

		src := -1
		for i, t := range tasks {
			if t.ID == id {
				src = i
				break
			}
		}
		if src == -1 {
			return ErrNotFound
		}

		if position < 0 {
			position = 0
		}
		if position > len(tasks)-1 {
			position = len(tasks) - 1
		}

		moved := tasks[src]
		tasks = append(tasks[:src], tasks[src+1:]...)
		tasks = append(tasks[:position], append([]*domain.Task{moved}, tasks[position:]...)...)

		for i, t := range tasks {
			if t.SortRank == int64(i) {
				continue
			}
			t.SortRank = int64(i)
			if err := tx.Model(&domain.Task{}).
				Where("id = ?", t.ID).
				Update("sort_rank", i).Error; err != nil {
				return fmt.Errorf("failed to update sort rank: %w", err)
			}
		}

		ordered = tasks
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ordered, nil
}

// escapeLike escapes LIKE metacharacters in user-supplied search text.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
