package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/parking-platform/internal/model"
	"github.com/Leganyst/parking-platform/internal/parking"
)

const (
	DefaultLocationName = "Main Parking"
	DefaultLocationCity = "Bengaluru"
)

type LocationRepository interface {
	// Найти локацию по ID.
	GetByID(ctx context.Context, id int64) (*model.Location, error)
	// Найти или создать локацию по имени.
	EnsureByName(ctx context.Context, name, city string) (*model.Location, error)
	// Все локации.
	List(ctx context.Context) ([]model.Location, error)
}

type GormLocationRepository struct {
	db *gorm.DB
}

func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

func (r *GormLocationRepository) GetByID(ctx context.Context, id int64) (*model.Location, error) {
	var loc model.Location
	if err := r.db.WithContext(ctx).First(&loc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, parking.ErrLocationNotFound
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &loc, nil
}

func (r *GormLocationRepository) EnsureByName(ctx context.Context, name, city string) (*model.Location, error) {
	loc := model.Location{Name: name, City: city}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&loc).Error
	if err != nil {
		return nil, fmt.Errorf("ensure location: %w", err)
	}

	var out model.Location
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&out).Error; err != nil {
		return nil, fmt.Errorf("ensure location: %w", err)
	}
	return &out, nil
}

func (r *GormLocationRepository) List(ctx context.Context) ([]model.Location, error) {
	var locs []model.Location
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&locs).Error; err != nil {
		return nil, err
	}
	return locs, nil
}
