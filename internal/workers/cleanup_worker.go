package workers

import (
	"context"
	"time"

	"feedline/internal/core/imagecleanup"
	imagePort "feedline/internal/ports/image"
	cleanupPort "feedline/internal/ports/imagecleanup"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// CleanupWorker حذف فایل‌های تصویری که دیگر توسط هیچ پستی ارجاع نمی‌شوند
type CleanupWorker struct {
	CleanupRepo  cleanupPort.CleanupRepository
	Notifier     cleanupPort.CleanupNotifier // اختیاری؛ بدون آن polling
	Storage      imagePort.ImageStorage
	BatchSize    int
	PollInterval time.Duration
	Logger       *zap.Logger
}

func NewCleanupWorker(
	cleanupRepo cleanupPort.CleanupRepository,
	notifier cleanupPort.CleanupNotifier,
	storage imagePort.ImageStorage,
	batchSize int,
	pollInterval time.Duration,
	logger *zap.Logger,
) *CleanupWorker {
	if batchSize <= 0 {
		batchSize = 100
	}
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &CleanupWorker{
		CleanupRepo:  cleanupRepo,
		Notifier:     notifier,
		Storage:      storage,
		BatchSize:    batchSize,
		PollInterval: pollInterval,
		Logger:       logger,
	}
}

// Run gets pending tasks until ctx is cancelled.
func (w *CleanupWorker) Run(ctx context.Context) {
	w.Logger.Info("🚀 CleanupWorker started")
	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("🛑 Cleanup worker stopped")
			return
		default:
		}

		fetched, settled, err := w.runBatch(ctx)
		if err != nil {
			w.Logger.Error("❌ Error fetching pending cleanup tasks", zap.Error(err))
		}
		if fetched >= w.BatchSize && settled > 0 {
			// ممکن است task بیشتری مانده باشد
			continue
		}
		w.wait(ctx)
	}
}

// RunOnce processes one batch and returns how many tasks left the pending
// state.
func (w *CleanupWorker) RunOnce(ctx context.Context) (int, error) {
	_, settled, err := w.runBatch(ctx)
	return settled, err
}

func (w *CleanupWorker) runBatch(ctx context.Context) (fetched, settled int, err error) {
	tasks, err := w.CleanupRepo.GetPending(ctx, int64(w.BatchSize))
	if err != nil {
		return 0, 0, err
	}
	for _, t := range tasks {
		if w.process(ctx, t) {
			settled++
		}
	}
	return len(tasks), settled, nil
}

// process reports whether the task was marked done or failed.
func (w *CleanupWorker) process(ctx context.Context, t *imagecleanup.Task) bool {
	if t == nil || t.ID == uuid.Nil {
		w.Logger.Error("❌ Invalid cleanup task", zap.Any("task", t))
		return false
	}

	if err := w.Storage.Delete(ctx, t.ImagePath); err != nil {
		// best-effort: فقط لاگ و علامت‌گذاری failed
		w.Logger.Warn("⚠️ Could not delete image",
			zap.String("taskID", t.ID.String()),
			zap.String("path", t.ImagePath),
			zap.String("reason", t.Reason),
			zap.Error(err))
		if err := w.CleanupRepo.MarkFailed(ctx, t.ID, err.Error()); err != nil {
			w.Logger.Warn("⚠️ Could not mark cleanup task failed", zap.Error(err))
			return false
		}
		return true
	}

	if err := w.CleanupRepo.MarkDone(ctx, t.ID); err != nil {
		w.Logger.Warn("⚠️ Could not mark cleanup task done", zap.Error(err))
		return false
	}
	w.Logger.Info("🧹 Image removed", zap.String("path", t.ImagePath), zap.String("reason", t.Reason))
	return true
}

func (w *CleanupWorker) wait(ctx context.Context) {
	if w.Notifier != nil {
		_, err := w.Notifier.Wait(ctx, w.PollInterval)
		if err == nil || ctx.Err() != nil {
			return
		}
		w.Logger.Warn("⚠️ Cleanup notifier failed, sleeping", zap.Error(err))
	}
	select {
	case <-ctx.Done():
	case <-time.After(w.PollInterval):
	}
}
