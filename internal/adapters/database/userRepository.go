package database

import (
	"context"
	"errors"

	"feedline/internal/core/user"
	"feedline/internal/ports"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepositoryDatabase پیاده‌سازی UserRepository برای دیتابیس
type UserRepositoryDatabase struct {
	db *gorm.DB
}

// NewUserRepositoryDatabase سازنده UserRepositoryDatabase
func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error; err != nil {
		// نیازمند TranslateError در gorm.Config
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicate
		}
		return nil, err
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id string) (*user.User, error) {
	return repo.first(ctx, "id = ?", id)
}

func (repo *UserRepositoryDatabase) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return repo.first(ctx, "email = ?", email)
}

func (repo *UserRepositoryDatabase) first(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User
	err := repo.db.WithContext(ctx).
		Preload("Posts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where(query, arg).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) UpdateStatus(ctx context.Context, id, status string) error {
	res := repo.db.WithContext(ctx).Model(&user.User{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// MySQL گزارش می‌دهد 0 وقتی مقدار تغییر نکرده
		var count int64
		if err := repo.db.WithContext(ctx).Model(&user.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ports.ErrNotFound
		}
	}
	return nil
}

func (repo *UserRepositoryDatabase) AddPost(ctx context.Context, userID, postID string) error {
	uid, err := uuid.FromString(userID)
	if err != nil {
		return err
	}
	pid, err := uuid.FromString(postID)
	if err != nil {
		return err
	}
	return repo.db.WithContext(ctx).Create(&user.OwnedPost{UserID: uid, PostID: pid}).Error
}

func (repo *UserRepositoryDatabase) RemovePost(ctx context.Context, userID, postID string) error {
	return repo.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&user.OwnedPost{}).Error
}

func (repo *UserRepositoryDatabase) PostIDs(ctx context.Context, userID string) ([]string, error) {
	var owned []user.OwnedPost
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&owned).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(owned))
	for _, o := range owned {
		ids = append(ids, o.PostID.String())
	}
	return ids, nil
}
