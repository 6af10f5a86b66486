package task

import (
	"errors"
	"testing"
	"time"

	domain "github.com/example/task-tracker/domain/task"
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

func newTask(ownerID, title string, createdAt time.Time) *domain.Task {
	return &domain.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    domain.StatusPending,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestRepository_CreateAndFindByID(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	task := newTask("owner-1", "Buy milk", time.Now())
	task.Description = "2 liters"

	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.FindByID(task.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != "Buy milk" {
		t.Errorf("expected title %q, got %q", "Buy milk", found.Title)
	}
	if found.Description != "2 liters" {
		t.Errorf("expected description %q, got %q", "2 liters", found.Description)
	}
	if found.OwnerID != "owner-1" {
		t.Errorf("expected owner %q, got %q", "owner-1", found.OwnerID)
	}
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	_, err := repo.FindByID("no-such-id")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestRepository_FindByOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	t.Run("empty result for unknown owner", func(t *testing.T) {
		tasks, err := repo.FindByOwner("nobody")
		if err != nil {
			t.Fatalf("FindByOwner() error = %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("expected 0 tasks, got %d", len(tasks))
		}
	})

	base := time.Now().Add(-time.Hour)
	first := newTask("alice", "first", base)
	second := newTask("alice", "second", base.Add(time.Minute))
	third := newTask("alice", "third", base.Add(2*time.Minute))
	other := newTask("bob", "bob's task", base.Add(3*time.Minute))

	for _, task := range []*domain.Task{first, second, third, other} {
		if err := repo.Create(task); err != nil {
			t.Fatalf("failed to create test task: %v", err)
		}
	}

	t.Run("scoped to owner, newest first", func(t *testing.T) {
		tasks, err := repo.FindByOwner("alice")
		if err != nil {
			t.Fatalf("FindByOwner() error = %v", err)
		}
		if len(tasks) != 3 {
			t.Fatalf("expected 3 tasks, got %d", len(tasks))
		}

		wantOrder := []string{"third", "second", "first"}
		for i, want := range wantOrder {
			if tasks[i].Title != want {
				t.Errorf("position %d: expected %q, got %q", i, want, tasks[i].Title)
			}
		}

		for _, task := range tasks {
			if task.OwnerID != "alice" {
				t.Errorf("found task owned by %q in alice's list", task.OwnerID)
			}
		}
	})
}

func TestRepository_Save(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	task := newTask("owner-1", "Original", time.Now())
	task.Description = "keep or clear"
	if err := repo.Create(task); err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	t.Run("updates fields including cleared description", func(t *testing.T) {
		task.Title = "Renamed"
		task.Description = ""
		task.Status = domain.StatusDone

		if err := repo.Save(task); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		found, err := repo.FindByID(task.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.Title != "Renamed" {
			t.Errorf("expected title %q, got %q", "Renamed", found.Title)
		}
		if found.Description != "" {
			t.Errorf("expected empty description, got %q", found.Description)
		}
		if found.Status != domain.StatusDone {
			t.Errorf("expected status %q, got %q", domain.StatusDone, found.Status)
		}
	})

	t.Run("missing task", func(t *testing.T) {
		missing := newTask("owner-1", "ghost", time.Now())
		if err := repo.Save(missing); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}

func TestRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	task := newTask("owner-1", "To be deleted", time.Now())
	if err := repo.Create(task); err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	if err := repo.Delete(task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Hard delete: the row is gone, not flagged.
	var count int64
	if err := db.Model(&domain.Task{}).Where("id = ?", task.ID).Count(&count).Error; err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 rows after delete, got %d", count)
	}

	// Deleting again is not idempotent success.
	if err := repo.Delete(task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound on second delete, got %v", err)
	}
}
