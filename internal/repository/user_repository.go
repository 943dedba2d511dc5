package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/parking-platform/internal/access"
	"github.com/Leganyst/parking-platform/internal/model"
)

type UserRepository interface {
	// Найти пользователя по ID. Отсутствие пользователя — (nil, nil).
	FindByID(ctx context.Context, id uuid.UUID) (*access.User, error)
	// Создать пользователя (сиды и тесты).
	Create(ctx context.Context, u *model.User) error
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*access.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &access.User{
		ID:   u.ID,
		Role: access.Role(u.RoleCode),
	}, nil
}

func (r *GormUserRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}
