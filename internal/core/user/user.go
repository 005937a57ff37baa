package user

import (
	"time"

	"github.com/gofrs/uuid"
)

// DefaultStatus وضعیت اولیه هر کاربر جدید
const DefaultStatus = "I am new!"

type User struct {
	ID        uuid.UUID   `gorm:"primaryKey;type:char(36)"`
	Email     string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name      string      `gorm:"not null"`
	Password  string      `gorm:"not null"` // bcrypt hash
	Status    string      `gorm:"not null"`
	Posts     []OwnedPost `gorm:"foreignKey:UserID"`
	CreatedAt time.Time   `gorm:"autoCreateTime"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime"`
}

// OwnedPost ارجاع کاربر به پستی که ساخته است (user_posts)
type OwnedPost struct {
	UserID    uuid.UUID `gorm:"primaryKey;type:char(36)"`
	PostID    uuid.UUID `gorm:"primaryKey;type:char(36);uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (OwnedPost) TableName() string { return "user_posts" }

// PostIDs returns the owned post ids in the order they were loaded.
func (u *User) PostIDs() []string {
	ids := make([]string, 0, len(u.Posts))
	for _, p := range u.Posts {
		ids = append(ids, p.PostID.String())
	}
	return ids
}
