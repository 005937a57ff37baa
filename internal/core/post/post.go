package post

import (
	"time"

	"feedline/internal/core/user"

	"github.com/gofrs/uuid"
)

type Post struct {
	Seq       uint64    `gorm:"primaryKey;autoIncrement"` // ترتیب درج برای tie-break
	ID        uuid.UUID `gorm:"type:char(36);uniqueIndex;not null"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Content   string    `gorm:"type:text;not null"`
	ImageURL  string    `gorm:"type:varchar(512);not null"`
	CreatorID uuid.UUID `gorm:"type:char(36);index;not null"`
	Creator   user.User `gorm:"foreignKey:CreatorID;references:ID"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
