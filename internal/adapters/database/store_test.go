package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"feedline/internal/core/imagecleanup"
	"feedline/internal/core/post"
	"feedline/internal/core/user"
	"feedline/internal/ports"
	"feedline/internal/ports/store"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.Must(uuid.NewV4()).String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func seedUser(t *testing.T, s *Store, email string) *user.User {
	t.Helper()
	u, err := s.Users().Create(context.Background(), &user.User{
		ID:       uuid.Must(uuid.NewV4()),
		Email:    email,
		Name:     "Max",
		Password: "hash",
		Status:   user.DefaultStatus,
	})
	require.NoError(t, err)
	return u
}

func seedPost(t *testing.T, s *Store, creator *user.User, title string, createdAt time.Time) *post.Post {
	t.Helper()
	p, err := s.Posts().Create(context.Background(), &post.Post{
		ID:        uuid.Must(uuid.NewV4()),
		Title:     title,
		Content:   "content of " + title,
		ImageURL:  "images/" + title + ".png",
		CreatorID: creator.ID,
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	return p
}

func TestPostRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newTestDB(t))
	u := seedUser(t, s, "max@example.com")
	p := seedPost(t, s, u, "first", time.Now())

	got, err := s.Posts().FindByID(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, u.ID, got.CreatorID)
	assert.Equal(t, "Max", got.Creator.Name)

	got.Title = "renamed"
	got.ImageURL = "images/other.png"
	updated, err := s.Posts().Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "images/other.png", updated.ImageURL)
	assert.Equal(t, u.ID, updated.CreatorID)

	require.NoError(t, s.Posts().Delete(ctx, p.ID.String()))
	_, err = s.Posts().FindByID(ctx, p.ID.String())
	assert.True(t, errors.Is(err, ports.ErrNotFound))
	assert.True(t, errors.Is(s.Posts().Delete(ctx, p.ID.String()), ports.ErrNotFound))
}

func TestPostRepositoryListOrdersByRecencyThenInsertion(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newTestDB(t))
	u := seedUser(t, s, "max@example.com")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	seedPost(t, s, u, "old", base)
	seedPost(t, s, u, "tieA", base.Add(time.Hour))
	seedPost(t, s, u, "tieB", base.Add(time.Hour))
	seedPost(t, s, u, "new", base.Add(2*time.Hour))

	count, err := s.Posts().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	var titles []string
	for offset := 0; offset < 4; offset += 2 {
		page, err := s.Posts().List(ctx, offset, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		for _, p := range page {
			titles = append(titles, p.Title)
			assert.Equal(t, "Max", p.Creator.Name)
		}
	}
	assert.Equal(t, []string{"new", "tieB", "tieA", "old"}, titles)
}

func TestUserRepositoryOwnedPosts(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newTestDB(t))
	u := seedUser(t, s, "max@example.com")
	p1 := seedPost(t, s, u, "one", time.Now())
	p2 := seedPost(t, s, u, "two", time.Now())

	require.NoError(t, s.Users().AddPost(ctx, u.ID.String(), p1.ID.String()))
	require.NoError(t, s.Users().AddPost(ctx, u.ID.String(), p2.ID.String()))

	ids, err := s.Users().PostIDs(ctx, u.ID.String())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{p1.ID.String(), p2.ID.String()}, ids)

	require.NoError(t, s.Users().RemovePost(ctx, u.ID.String(), p1.ID.String()))
	found, err := s.Users().FindByEmail(ctx, "max@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{p2.ID.String()}, found.PostIDs())
}

func TestUserRepositoryStatus(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newTestDB(t))
	u := seedUser(t, s, "max@example.com")

	require.NoError(t, s.Users().UpdateStatus(ctx, u.ID.String(), "busy"))
	require.NoError(t, s.Users().UpdateStatus(ctx, u.ID.String(), "busy"))
	got, err := s.Users().FindByID(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "busy", got.Status)

	missing := uuid.Must(uuid.NewV4()).String()
	assert.True(t, errors.Is(s.Users().UpdateStatus(ctx, missing, "x"), ports.ErrNotFound))
	_, err = s.Users().FindByID(ctx, missing)
	assert.True(t, errors.Is(err, ports.ErrNotFound))
}

func TestUserRepositoryUniqueEmail(t *testing.T) {
	s := NewStore(newTestDB(t))
	seedUser(t, s, "max@example.com")

	_, err := s.Users().Create(context.Background(), &user.User{
		ID:       uuid.Must(uuid.NewV4()),
		Email:    "max@example.com",
		Name:     "Other",
		Password: "hash",
		Status:   user.DefaultStatus,
	})
	assert.ErrorIs(t, err, ports.ErrDuplicate)
}

func TestWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newTestDB(t))
	u := seedUser(t, s, "max@example.com")

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx store.Stores) error {
		p, err := tx.Posts().Create(ctx, &post.Post{
			ID:        uuid.Must(uuid.NewV4()),
			Title:     "doomed",
			Content:   "content",
			ImageURL:  "images/doomed.png",
			CreatorID: u.ID,
		})
		if err != nil {
			return err
		}
		if err := tx.Users().AddPost(ctx, u.ID.String(), p.ID.String()); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := s.Posts().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	ids, err := s.Users().PostIDs(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCleanupRepository(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newTestDB(t))

	a := imagecleanup.NewTask("images/a.png", imagecleanup.ReasonDeleted)
	b := imagecleanup.NewTask("images/b.png", imagecleanup.ReasonReplaced)
	require.NoError(t, s.Cleanup().Enqueue(ctx, a, b))
	require.NoError(t, s.Cleanup().Enqueue(ctx))

	pending, err := s.Cleanup().GetPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, s.Cleanup().MarkDone(ctx, a.ID))
	require.NoError(t, s.Cleanup().MarkFailed(ctx, b.ID, "permission denied"))

	pending, err = s.Cleanup().GetPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	var failed imagecleanup.Task
	require.NoError(t, s.db.First(&failed, "id = ?", b.ID).Error)
	assert.Equal(t, imagecleanup.StatusFailed, failed.Status)
	assert.Equal(t, "permission denied", failed.LastError)
	assert.NotNil(t, failed.ProcessedAt)
}
