package imagecleanup

import (
	"context"
	"time"

	"feedline/internal/core/imagecleanup"

	"github.com/gofrs/uuid"
)

type CleanupRepository interface {
	Enqueue(ctx context.Context, tasks ...*imagecleanup.Task) error
	GetPending(ctx context.Context, limit int64) ([]*imagecleanup.Task, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

// CleanupNotifier بیدار کردن worker بعد از ثبت task جدید
type CleanupNotifier interface {
	Notify(ctx context.Context) error
	// Wait blocks until a notification arrives or timeout elapses. It reports
	// whether a notification was received.
	Wait(ctx context.Context, timeout time.Duration) (bool, error)
}
