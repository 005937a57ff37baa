package user

import (
	"context"

	"feedline/internal/core/user"
)

// UserRepository پورت برای ذخیره‌سازی و بازیابی کاربران
type UserRepository interface {
	Create(ctx context.Context, user *user.User) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	UpdateStatus(ctx context.Context, id, status string) error
	AddPost(ctx context.Context, userID, postID string) error
	RemovePost(ctx context.Context, userID, postID string) error
	PostIDs(ctx context.Context, userID string) ([]string, error)
}

// DTOها برای UseCase
type LoginResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	ExpiresAt int64  `json:"expiresAt"`
}

type UserDTO struct {
	ID     string   `json:"_id"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Status string   `json:"status"`
	Posts  []string `json:"posts"`
}

// CreatorDTO خلاصه سازنده پست
type CreatorDTO struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}
