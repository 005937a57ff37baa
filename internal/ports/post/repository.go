package post

import (
	"context"
	"time"

	"feedline/internal/core/post"
	userPort "feedline/internal/ports/user"
)

// PostRepository پورت برای ذخیره‌سازی و بازیابی پست‌ها
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id string) (*post.Post, error)
	Update(ctx context.Context, post *post.Post) (*post.Post, error)
	Delete(ctx context.Context, id string) error
	// List returns posts newest first, with Creator loaded.
	List(ctx context.Context, offset, limit int) ([]*post.Post, error)
	Count(ctx context.Context) (int64, error)
}

// DTOها برای UseCase
type PostDTO struct {
	ID        string               `json:"_id"`
	Title     string               `json:"title"`
	Content   string               `json:"content"`
	ImageURL  string               `json:"imageUrl"`
	Creator   *userPort.CreatorDTO `json:"creator"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

type PostPageDTO struct {
	Posts      []*PostDTO `json:"posts"`
	TotalItems int64      `json:"totalItems"`
}

type CreatedPostDTO struct {
	Post    *PostDTO             `json:"post"`
	Creator *userPort.CreatorDTO `json:"creator"`
}

func ToDTO(p *post.Post) *PostDTO {
	dto := &PostDTO{
		ID:        p.ID.String(),
		Title:     p.Title,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		Creator:   &userPort.CreatorDTO{ID: p.CreatorID.String()},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Creator.ID == p.CreatorID {
		dto.Creator.Name = p.Creator.Name
	}
	return dto
}
