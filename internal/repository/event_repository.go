package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/parking-platform/internal/model"
)

type EventRepository interface {
	// Записать событие брони. details сериализуются в JSON.
	Append(ctx context.Context, eventType model.EventType, b *model.Booking, details map[string]any) error
	// События брони в порядке записи.
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]model.BookingEvent, error)
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Append(ctx context.Context, eventType model.EventType, b *model.Booking, details map[string]any) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encode event details: %w", err)
	}

	ev := model.BookingEvent{
		EventType: eventType,
		BookingID: b.ID,
		VehicleID: b.VehicleID,
		SlotID:    b.SlotID,
		Details:   datatypes.JSON(raw),
	}
	if err := r.db.WithContext(ctx).Create(&ev).Error; err != nil {
		return fmt.Errorf("append %s event: %w", eventType, err)
	}
	return nil
}

func (r *GormEventRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]model.BookingEvent, error) {
	var events []model.BookingEvent
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
