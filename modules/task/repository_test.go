package task

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/razi5474/Task-manager/domain/task"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// seedTask inserts a task directly, bypassing the repository, with a
// controlled creation time so ordering assertions are deterministic.
func seedTask(t *testing.T, db *gorm.DB, owner, title string, status domain.Status, createdAt time.Time, rank int64) *domain.Task {
	t.Helper()

	task := &domain.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    status,
		OwnerID:   owner,
		SortRank:  rank,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to seed task %q: %v", title, err)
	}
	return task
}

func TestRepository_Create_AssignsSortRank(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for i, title := range []string{"first", "second", "third"} {
		task := &domain.Task{
			ID:      uuid.New().String(),
			Title:   title,
			Status:  domain.StatusPending,
			OwnerID: "owner-1",
		}
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if task.SortRank != int64(i) {
			t.Errorf("task %q sort rank = %d, want %d", title, task.SortRank, i)
		}
	}

	// Another owner's ranks start from zero independently
	other := &domain.Task{
		ID:      uuid.New().String(),
		Title:   "unrelated",
		Status:  domain.StatusPending,
		OwnerID: "owner-2",
	}
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if other.SortRank != 0 {
		t.Errorf("other owner's first rank = %d, want 0", other.SortRank)
	}
}

func TestRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedTask(t, db, "owner-1", "Buy milk", domain.StatusPending, time.Now(), 0)

	t.Run("owned task", func(t *testing.T) {
		found, err := repo.FindByID(ctx, "owner-1", seeded.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.Title != "Buy milk" {
			t.Errorf("title = %q, want %q", found.Title, "Buy milk")
		}
	})

	t.Run("another owner's task", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "owner-2", seeded.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "owner-1", "no-such-id")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRepository_List_OwnershipIsolation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now()
	seedTask(t, db, "alice", "Alice task 1", domain.StatusPending, now, 0)
	seedTask(t, db, "alice", "Alice task 2", domain.StatusPending, now.Add(time.Second), 1)
	seedTask(t, db, "bob", "Bob task", domain.StatusPending, now, 0)

	tasks, err := repo.List(ctx, "bob", ListFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task for bob, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.OwnerID != "bob" {
			t.Errorf("list leaked task owned by %q", task.OwnerID)
		}
	}
}

func TestRepository_List_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now()
	seedTask(t, db, "u1", "Lunch with team", domain.StatusPending, now, 0)
	seedTask(t, db, "u1", "Dinner", domain.StatusPending, now.Add(1*time.Second), 1)
	seedTask(t, db, "u1", "lunch prep", domain.StatusCompleted, now.Add(2*time.Second), 2)

	t.Run("search is case-insensitive substring", func(t *testing.T) {
		tasks, err := repo.List(ctx, "u1", ListFilter{Search: "lun"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("expected 2 matches, got %d", len(tasks))
		}
		for _, task := range tasks {
			if task.Title == "Dinner" {
				t.Error("search matched unrelated title")
			}
		}
	})

	t.Run("search upper-case query", func(t *testing.T) {
		tasks, err := repo.List(ctx, "u1", ListFilter{Search: "LUN"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 2 {
			t.Errorf("expected 2 matches for upper-case query, got %d", len(tasks))
		}
	})

	t.Run("status filter", func(t *testing.T) {
		tasks, err := repo.List(ctx, "u1", ListFilter{Status: domain.StatusCompleted})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 1 || tasks[0].Title != "lunch prep" {
			t.Errorf("status filter returned wrong tasks: %+v", tasks)
		}
	})

	t.Run("search and status combine with AND", func(t *testing.T) {
		tasks, err := repo.List(ctx, "u1", ListFilter{Search: "lun", Status: domain.StatusPending})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 1 || tasks[0].Title != "Lunch with team" {
			t.Errorf("combined filter returned wrong tasks: %+v", tasks)
		}
	})

	t.Run("no matches yields empty slice", func(t *testing.T) {
		tasks, err := repo.List(ctx, "u1", ListFilter{Search: "zzz"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if tasks == nil {
			t.Error("expected empty slice, got nil")
		}
		if len(tasks) != 0 {
			t.Errorf("expected 0 tasks, got %d", len(tasks))
		}
	})
}

func TestRepository_List_EscapesLikeMetacharacters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now()
	seedTask(t, db, "u1", "100% done", domain.StatusPending, now, 0)
	seedTask(t, db, "u1", "100x done", domain.StatusPending, now.Add(time.Second), 1)

	tasks, err := repo.List(ctx, "u1", ListFilter{Search: "100%"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "100% done" {
		t.Errorf("expected literal %% match only, got %+v", tasks)
	}
}

func TestRepository_List_Ordering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now()
	seedTask(t, db, "u1", "oldest", domain.StatusPending, now, 2)
	seedTask(t, db, "u1", "middle", domain.StatusPending, now.Add(1*time.Second), 0)
	seedTask(t, db, "u1", "newest", domain.StatusPending, now.Add(2*time.Second), 1)

	t.Run("default is newest first", func(t *testing.T) {
		tasks, err := repo.List(ctx, "u1", ListFilter{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		want := []string{"newest", "middle", "oldest"}
		for i, title := range want {
			if tasks[i].Title != title {
				t.Errorf("position %d = %q, want %q", i, tasks[i].Title, title)
			}
		}
	})

	t.Run("manual follows sort rank", func(t *testing.T) {
		tasks, err := repo.List(ctx, "u1", ListFilter{Order: OrderManual})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		want := []string{"middle", "newest", "oldest"}
		for i, title := range want {
			if tasks[i].Title != title {
				t.Errorf("position %d = %q, want %q", i, tasks[i].Title, title)
			}
		}
	})
}

func TestRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedTask(t, db, "owner-1", "To be deleted", domain.StatusPending, time.Now(), 0)

	t.Run("another owner cannot delete", func(t *testing.T) {
		err := repo.Delete(ctx, "owner-2", seeded.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}

		// The task must still be there for its actual owner
		if _, err := repo.FindByID(ctx, "owner-1", seeded.ID); err != nil {
			t.Errorf("task vanished after foreign delete attempt: %v", err)
		}
	})

	t.Run("owner deletes", func(t *testing.T) {
		if err := repo.Delete(ctx, "owner-1", seeded.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		_, err := repo.FindByID(ctx, "owner-1", seeded.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("missing task", func(t *testing.T) {
		err := repo.Delete(ctx, "owner-1", "no-such-id")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRepository_Move(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now()
	a := seedTask(t, db, "u1", "A", domain.StatusPending, now, 0)
	_ = seedTask(t, db, "u1", "B", domain.StatusPending, now.Add(1*time.Second), 1)
	c := seedTask(t, db, "u1", "C", domain.StatusPending, now.Add(2*time.Second), 2)

	t.Run("splice to front", func(t *testing.T) {
		ordered, err := repo.Move(ctx, "u1", c.ID, 0)
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		want := []string{"C", "A", "B"}
		for i, title := range want {
			if ordered[i].Title != title {
				t.Errorf("position %d = %q, want %q", i, ordered[i].Title, title)
			}
			if ordered[i].SortRank != int64(i) {
				t.Errorf("rank of %q = %d, want %d", ordered[i].Title, ordered[i].SortRank, i)
			}
		}
	})

	t.Run("out-of-range position clamps", func(t *testing.T) {
		ordered, err := repo.Move(ctx, "u1", a.ID, 99)
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if ordered[len(ordered)-1].Title != "A" {
			t.Errorf("last task = %q, want %q", ordered[len(ordered)-1].Title, "A")
		}

		ordered, err = repo.Move(ctx, "u1", a.ID, -5)
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if ordered[0].Title != "A" {
			t.Errorf("first task = %q, want %q", ordered[0].Title, "A")
		}
	})

	t.Run("another owner's task", func(t *testing.T) {
		_, err := repo.Move(ctx, "u2", a.ID, 0)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
