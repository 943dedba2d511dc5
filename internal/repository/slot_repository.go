package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/parking-platform/internal/model"
	"github.com/Leganyst/parking-platform/internal/parking"
)

// Сколько кандидатов читаем за одну попытку захвата.
const claimBatch = 5

type OccupancyCounts struct {
	Total     int64
	Occupied  int64
	Available int64
}

type SlotRepository interface {
	// Атомарно занять свободное место нужного класса.
	Claim(ctx context.Context, locationID int64, class model.SizeClass) (*model.Slot, error)
	// Занять место нужного класса, при нехватке один раз попробовать LARGE.
	ClaimWithFallback(ctx context.Context, locationID int64, class model.SizeClass) (*model.Slot, bool, error)
	// Освободить место. Повторный вызов не ошибка.
	Release(ctx context.Context, slotID uuid.UUID) error
	// Освободить место, только если оно привязано к этой брони или ни к какой.
	ReleaseBound(ctx context.Context, slotID, bookingID uuid.UUID) error
	// Привязать место к брони.
	Bind(ctx context.Context, slotID, bookingID uuid.UUID) error
	// Счётчики занятости по локации.
	CountByOccupancy(ctx context.Context, locationID int64) (OccupancyCounts, error)
	// Все места локации в порядке этаж/номер.
	ListByLocation(ctx context.Context, locationID int64) ([]model.Slot, error)
	// Найти место по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error)
	// Создать стандартную раскладку из 20 мест, если у локации мест нет.
	SeedDefaultLayout(ctx context.Context, locationID int64) (int, error)
}

type GormSlotRepository struct {
	db *gorm.DB
}

func NewGormSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

func (r *GormSlotRepository) Claim(ctx context.Context, locationID int64, class model.SizeClass) (*model.Slot, error) {
	var candidates []model.Slot
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("location_id = ? AND size_class = ?", locationID, class).
		Where("occupied = ? AND available = ?", false, true).
		Order("floor ASC").
		Order("number ASC").
		Limit(claimBatch).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("claim slot: %w", err)
	}

	for i := range candidates {
		c := candidates[i]
		res := r.db.WithContext(ctx).
			Model(&model.Slot{}).
			Where("id = ? AND occupied = ?", c.ID, false).
			Updates(map[string]any{"occupied": true, "available": false})
		if res.Error != nil {
			return nil, fmt.Errorf("claim slot: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			c.Occupied = true
			c.Available = false
			return &c, nil
		}
	}

	return nil, parking.ErrNoAvailableSlot
}

func (r *GormSlotRepository) ClaimWithFallback(ctx context.Context, locationID int64, class model.SizeClass) (*model.Slot, bool, error) {
	slot, err := r.Claim(ctx, locationID, class)
	if err == nil {
		return slot, false, nil
	}
	if !errors.Is(err, parking.ErrNoAvailableSlot) {
		return nil, false, err
	}

	fallback, ok := parking.FallbackClass(class)
	if !ok {
		return nil, false, err
	}

	slot, err = r.Claim(ctx, locationID, fallback)
	if err != nil {
		return nil, false, err
	}
	return slot, true, nil
}

func (r *GormSlotRepository) Release(ctx context.Context, slotID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Slot{}).
		Where("id = ?", slotID).
		Updates(map[string]any{
			"occupied":           false,
			"available":          true,
			"current_booking_id": nil,
		}).Error
}

func (r *GormSlotRepository) ReleaseBound(ctx context.Context, slotID, bookingID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&model.Slot{}).
		Where("id = ?", slotID).
		Where("current_booking_id = ? OR current_booking_id IS NULL", bookingID).
		Updates(map[string]any{
			"occupied":           false,
			"available":          true,
			"current_booking_id": nil,
		})
	if res.Error != nil {
		return fmt.Errorf("release slot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("release slot %s: bound to another booking: %w", slotID, parking.ErrConsistency)
	}
	return nil
}

func (r *GormSlotRepository) Bind(ctx context.Context, slotID, bookingID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&model.Slot{}).
		Where("id = ? AND occupied = ?", slotID, true).
		Update("current_booking_id", bookingID)
	if res.Error != nil {
		return fmt.Errorf("bind slot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("bind slot %s: slot is not claimed: %w", slotID, parking.ErrConsistency)
	}
	return nil
}

func (r *GormSlotRepository) CountByOccupancy(ctx context.Context, locationID int64) (OccupancyCounts, error) {
	var rows []struct {
		Occupied bool
		N        int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Slot{}).
		Select("occupied, COUNT(*) AS n").
		Where("location_id = ?", locationID).
		Group("occupied").
		Scan(&rows).Error
	if err != nil {
		return OccupancyCounts{}, fmt.Errorf("count slots: %w", err)
	}

	var c OccupancyCounts
	for _, row := range rows {
		c.Total += row.N
		if row.Occupied {
			c.Occupied += row.N
		} else {
			c.Available += row.N
		}
	}
	return c, nil
}

func (r *GormSlotRepository) ListByLocation(ctx context.Context, locationID int64) ([]model.Slot, error) {
	var slots []model.Slot
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("floor ASC").
		Order("number ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *GormSlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	var slot model.Slot
	if err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// Раскладка по умолчанию: S1–S8 SMALL, S9–S14 MEDIUM, S15–S20 LARGE, первый этаж.
func defaultLayout(locationID int64) []model.Slot {
	slots := make([]model.Slot, 0, 20)
	for n := 1; n <= 20; n++ {
		class := model.SizeLarge
		switch {
		case n <= 8:
			class = model.SizeSmall
		case n <= 14:
			class = model.SizeMedium
		}
		slots = append(slots, model.Slot{
			LocationID: locationID,
			SizeClass:  class,
			Floor:      1,
			Number:     n,
			Label:      fmt.Sprintf("S%d", n),
			Available:  true,
		})
	}
	return slots
}

func (r *GormSlotRepository) SeedDefaultLayout(ctx context.Context, locationID int64) (int, error) {
	var existing int64
	if err := r.db.WithContext(ctx).Model(&model.Slot{}).Where("location_id = ?", locationID).Count(&existing).Error; err != nil {
		return 0, fmt.Errorf("seed slots: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	slots := defaultLayout(locationID)
	if err := r.db.WithContext(ctx).Create(&slots).Error; err != nil {
		return 0, fmt.Errorf("seed slots: %w", err)
	}
	return len(slots), nil
}
