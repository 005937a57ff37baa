package database

import (
	"context"
	"time"

	"feedline/internal/core/imagecleanup"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type CleanupRepositoryDatabase struct {
	db *gorm.DB
}

func NewCleanupRepositoryDatabase(db *gorm.DB) *CleanupRepositoryDatabase {
	return &CleanupRepositoryDatabase{db: db}
}

func (repo *CleanupRepositoryDatabase) Enqueue(ctx context.Context, tasks ...*imagecleanup.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return repo.db.WithContext(ctx).Create(&tasks).Error
}

func (repo *CleanupRepositoryDatabase) GetPending(ctx context.Context, limit int64) ([]*imagecleanup.Task, error) {
	var tasks []*imagecleanup.Task
	if err := repo.db.WithContext(ctx).
		Where("status = ?", imagecleanup.StatusPending).
		Order("created_at ASC").
		Limit(int(limit)).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (repo *CleanupRepositoryDatabase) MarkDone(ctx context.Context, id uuid.UUID) error {
	return repo.mark(ctx, id, map[string]interface{}{
		"status":       imagecleanup.StatusDone,
		"processed_at": time.Now(),
	})
}

func (repo *CleanupRepositoryDatabase) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return repo.mark(ctx, id, map[string]interface{}{
		"status":       imagecleanup.StatusFailed,
		"last_error":   reason,
		"processed_at": time.Now(),
	})
}

func (repo *CleanupRepositoryDatabase) mark(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return repo.db.WithContext(ctx).Model(&imagecleanup.Task{}).
		Where("id = ?", id).
		Updates(fields).Error
}
