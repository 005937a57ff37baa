package database

import (
	"context"

	"feedline/internal/core/imagecleanup"
	"feedline/internal/core/post"
	"feedline/internal/core/user"
	cleanupPort "feedline/internal/ports/imagecleanup"
	postPort "feedline/internal/ports/post"
	"feedline/internal/ports/store"
	userPort "feedline/internal/ports/user"

	"gorm.io/gorm"
)

// Store repositories بر روی یک اتصال یا یک تراکنش
type Store struct {
	db      *gorm.DB
	posts   *PostRepositoryDatabase
	users   *UserRepositoryDatabase
	cleanup *CleanupRepositoryDatabase
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:      db,
		posts:   NewPostRepositoryDatabase(db),
		users:   NewUserRepositoryDatabase(db),
		cleanup: NewCleanupRepositoryDatabase(db),
	}
}

func (s *Store) Posts() postPort.PostRepository { return s.posts }

func (s *Store) Users() userPort.UserRepository { return s.users }

func (s *Store) Cleanup() cleanupPort.CleanupRepository { return s.cleanup }

// WithinTx همه عملیات fn در یک تراکنش اجرا می‌شود
func (s *Store) WithinTx(ctx context.Context, fn func(tx store.Stores) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Migrate اعمال مایگریشن برای مدل‌ها
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&user.OwnedPost{},
		&post.Post{},
		&imagecleanup.Task{},
	)
}
