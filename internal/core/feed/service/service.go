package feedapp

import (
	"context"
	"errors"
	"strings"

	"feedline/internal/apperr"
	"feedline/internal/core/imagecleanup"
	postEntity "feedline/internal/core/post"
	"feedline/internal/core/validation"
	"feedline/internal/ports"
	cleanupPort "feedline/internal/ports/imagecleanup"
	postPort "feedline/internal/ports/post"
	"feedline/internal/ports/store"
	userPort "feedline/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const DefaultPageSize = 2

// FeedService قوانین مالکیت پست، اعتبارسنجی و سازگاری فایل تصویر
type FeedService struct {
	Store     store.Transactor
	Validator validation.Policy
	Notifier  cleanupPort.CleanupNotifier // اختیاری
	PageSize  int
	logger    *zap.Logger
}

func NewFeedService(
	st store.Transactor,
	policy validation.Policy,
	notifier cleanupPort.CleanupNotifier,
	pageSize int,
	logger *zap.Logger,
) *FeedService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &FeedService{
		Store:     st,
		Validator: policy,
		Notifier:  notifier,
		PageSize:  pageSize,
		logger:    logger,
	}
}

// ListPosts returns one page of the feed, newest first. page is 1-indexed;
// a non-positive pageSize uses the configured default.
func (s *FeedService) ListPosts(ctx context.Context, page, pageSize int) (*postPort.PostPageDTO, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.PageSize
	}

	total, err := s.Store.Posts().Count(ctx)
	if err != nil {
		return nil, apperr.Transient("failed to count posts", err)
	}
	// صفحه‌های بعد از انتها خالی‌اند؛ offset فقط وقتی محاسبه می‌شود که از total کمتر باشد
	var pages int64
	if total > 0 {
		pages = (total-1)/int64(pageSize) + 1
	}
	if int64(page-1) >= pages {
		return &postPort.PostPageDTO{Posts: []*postPort.PostDTO{}, TotalItems: total}, nil
	}
	posts, err := s.Store.Posts().List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, apperr.Transient("failed to list posts", err)
	}

	dtos := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, postPort.ToDTO(p))
	}
	return &postPort.PostPageDTO{Posts: dtos, TotalItems: total}, nil
}

// CreatePost ثبت پست جدید و افزودن آن به پست‌های سازنده در یک تراکنش
func (s *FeedService) CreatePost(ctx context.Context, userID, title, content, imagePath string) (*postPort.CreatedPostDTO, error) {
	imagePath = normalizeImage(imagePath)

	if err := s.Validator.ValidatePost(title, content); err != nil {
		s.discardUpload(ctx, imagePath)
		return nil, err
	}
	if imagePath == "" {
		return nil, apperr.MissingImage("No image provided")
	}

	var (
		created *postEntity.Post
		creator *userPort.CreatorDTO
	)
	err := s.Store.WithinTx(ctx, func(tx store.Stores) error {
		u, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return apperr.Validation("No user was found", nil)
			}
			return apperr.Transient("failed to load user", err)
		}

		created, err = tx.Posts().Create(ctx, &postEntity.Post{
			ID:        uuid.Must(uuid.NewV4()),
			Title:     strings.TrimSpace(title),
			Content:   strings.TrimSpace(content),
			ImageURL:  imagePath,
			CreatorID: u.ID,
		})
		if err != nil {
			return apperr.Transient("failed to create post", err)
		}
		created.Creator = *u

		if err := tx.Users().AddPost(ctx, u.ID.String(), created.ID.String()); err != nil {
			return apperr.Transient("failed to link post to user", err)
		}
		creator = &userPort.CreatorDTO{ID: u.ID.String(), Name: u.Name}
		return nil
	})
	if err != nil {
		s.discardUpload(ctx, imagePath)
		return nil, err
	}

	s.logger.Info("✅ Post created", zap.String("postID", created.ID.String()), zap.String("userID", userID))
	return &postPort.CreatedPostDTO{Post: postPort.ToDTO(created), Creator: creator}, nil
}

func (s *FeedService) GetPost(ctx context.Context, postID string) (*postPort.PostDTO, error) {
	p, err := s.Store.Posts().FindByID(ctx, postID)
	if err != nil {
		return nil, translate(err, "Could not find post.", "failed to load post")
	}
	return postPort.ToDTO(p), nil
}

// UpdatePost overwrites title and content. imagePath is the reference of an
// image stored for this request, or empty to keep the current one. A
// replaced image is queued for deletion.
func (s *FeedService) UpdatePost(ctx context.Context, userID, postID, title, content, imagePath string) (*postPort.PostDTO, error) {
	imagePath = normalizeImage(imagePath)

	if err := s.Validator.ValidatePost(title, content); err != nil {
		s.discardUpload(ctx, imagePath)
		return nil, err
	}

	var (
		updated  *postEntity.Post
		replaced bool
	)
	err := s.Store.WithinTx(ctx, func(tx store.Stores) error {
		p, err := s.ownedPost(ctx, tx, userID, postID)
		if err != nil {
			return err
		}

		effective := imagePath
		if effective == "" {
			effective = p.ImageURL
		}
		if effective == "" {
			return apperr.MissingImage("No file picked.")
		}

		if effective != p.ImageURL {
			if p.ImageURL != "" {
				if err := tx.Cleanup().Enqueue(ctx, imagecleanup.NewTask(p.ImageURL, imagecleanup.ReasonReplaced)); err != nil {
					return apperr.Transient("failed to schedule image cleanup", err)
				}
				replaced = true
			}
			p.ImageURL = effective
		}
		p.Title = strings.TrimSpace(title)
		p.Content = strings.TrimSpace(content)

		updated, err = tx.Posts().Update(ctx, p)
		if err != nil {
			return apperr.Transient("failed to update post", err)
		}
		return nil
	})
	if err != nil {
		s.discardUpload(ctx, imagePath)
		return nil, err
	}
	if replaced {
		s.notify(ctx)
	}

	s.logger.Info("✅ Post updated", zap.String("postID", postID), zap.Bool("imageReplaced", replaced))
	return postPort.ToDTO(updated), nil
}

// DeletePost حذف پست، ارجاع کاربر و زمان‌بندی حذف فایل تصویر
func (s *FeedService) DeletePost(ctx context.Context, userID, postID string) error {
	err := s.Store.WithinTx(ctx, func(tx store.Stores) error {
		p, err := s.ownedPost(ctx, tx, userID, postID)
		if err != nil {
			return err
		}
		if p.ImageURL != "" {
			if err := tx.Cleanup().Enqueue(ctx, imagecleanup.NewTask(p.ImageURL, imagecleanup.ReasonDeleted)); err != nil {
				return apperr.Transient("failed to schedule image cleanup", err)
			}
		}
		if err := tx.Posts().Delete(ctx, postID); err != nil {
			return translate(err, "Could not find post.", "failed to delete post")
		}
		if err := tx.Users().RemovePost(ctx, p.CreatorID.String(), p.ID.String()); err != nil {
			return apperr.Transient("failed to unlink post from user", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.notify(ctx)

	s.logger.Info("🗑️ Post deleted", zap.String("postID", postID), zap.String("userID", userID))
	return nil
}

func (s *FeedService) GetStatus(ctx context.Context, userID string) (string, error) {
	u, err := s.Store.Users().FindByID(ctx, userID)
	if err != nil {
		return "", translate(err, "Could not find a user.", "failed to load user")
	}
	return u.Status, nil
}

func (s *FeedService) UpdateStatus(ctx context.Context, userID, status string) (string, error) {
	status = strings.TrimSpace(status)
	if err := s.Store.Users().UpdateStatus(ctx, userID, status); err != nil {
		return "", translate(err, "Could not find a user.", "failed to update status")
	}
	return status, nil
}

// ownedPost loads postID and checks userID created it.
func (s *FeedService) ownedPost(ctx context.Context, tx store.Stores, userID, postID string) (*postEntity.Post, error) {
	p, err := tx.Posts().FindByID(ctx, postID)
	if err != nil {
		return nil, translate(err, "Could not find post.", "failed to load post")
	}
	if p.CreatorID.String() != userID {
		s.logger.Warn("⚠️ Not authorized", zap.String("postID", postID), zap.String("userID", userID))
		return nil, apperr.NotAuthorized("Not authorized.")
	}
	return p, nil
}

// discardUpload queues an upload no post ended up referencing. Failures
// are only logged.
func (s *FeedService) discardUpload(ctx context.Context, imagePath string) {
	if imagePath == "" {
		return
	}
	task := imagecleanup.NewTask(imagePath, imagecleanup.ReasonOrphaned)
	if err := s.Store.Cleanup().Enqueue(ctx, task); err != nil {
		s.logger.Warn("⚠️ Could not schedule cleanup of unused upload", zap.String("path", imagePath), zap.Error(err))
		return
	}
	s.notify(ctx)
}

func (s *FeedService) notify(ctx context.Context) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx); err != nil {
		s.logger.Warn("⚠️ Could not notify cleanup worker", zap.Error(err))
	}
}

func translate(err error, notFound, transient string) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, ports.ErrNotFound) {
		return apperr.NotFound(notFound)
	}
	return apperr.Transient(transient, err)
}

// normalizeImage treats "undefined" and "null" form values as no image and
// converts Windows separators.
func normalizeImage(path string) string {
	path = strings.TrimSpace(path)
	if path == "undefined" || path == "null" {
		return ""
	}
	return strings.ReplaceAll(path, "\\", "/")
}
