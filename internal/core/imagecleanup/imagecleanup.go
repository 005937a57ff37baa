package imagecleanup

import (
	"time"

	"github.com/gofrs/uuid"
)

const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Task یک حذف فایل تصویر که باید به صورت best-effort انجام شود
type Task struct {
	ID          uuid.UUID  `gorm:"primaryKey;type:char(36)"`
	ImagePath   string     `gorm:"type:varchar(512);not null"`
	Reason      string     `gorm:"type:varchar(32);not null"` // replaced, deleted, orphaned
	Status      string     `gorm:"type:varchar(20);not null;index"`
	LastError   string     `gorm:"type:text"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	ProcessedAt *time.Time `gorm:"index"`
}

func (Task) TableName() string { return "image_cleanup_tasks" }

const (
	ReasonReplaced = "replaced"
	ReasonDeleted  = "deleted"
	ReasonOrphaned = "orphaned"
)

func NewTask(path, reason string) *Task {
	return &Task{
		ID:        uuid.Must(uuid.NewV4()),
		ImagePath: path,
		Reason:    reason,
		Status:    StatusPending,
	}
}
