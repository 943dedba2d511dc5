package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// users — владельцы машин и операторы. Регистрация живёт во внешнем сервисе,
// здесь пользователи только читаются.
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	DisplayName  string `gorm:"type:varchar(255)"`
	ContactPhone string `gorm:"type:varchar(32)"`

	RoleCode string `gorm:"type:varchar(32);not null;default:'user';index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
