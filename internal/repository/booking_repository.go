package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/parking-platform/internal/model"
	"github.com/Leganyst/parking-platform/internal/parking"
)

type BookingRepository interface {
	// Создать бронь. Нарушение уникальности активной брони даёт ErrAlreadyParked.
	Create(ctx context.Context, b *model.Booking) error
	// Найти бронь по номеру; lock блокирует строку до конца транзакции.
	GetByNumber(ctx context.Context, number string, lock bool) (*model.Booking, error)
	// Активная бронь машины.
	FindActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (*model.Booking, error)
	// Закрыть бронь, только если она всё ещё активна.
	Complete(ctx context.Context, id uuid.UUID, exit time.Time, hours int64, amount float64) error
	// Брони с въездом в [from, to).
	ListByEntryRange(ctx context.Context, from, to time.Time) ([]model.Booking, error)
	// Активные брони локации вместе с машиной и местом.
	ListActiveByLocation(ctx context.Context, locationID int64) ([]model.Booking, error)
	// Выручка по завершённым броням локации за всё время.
	RevenueByLocation(ctx context.Context, locationID int64) (float64, error)
}

type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, b *model.Booking) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("create booking: %w", parking.ErrAlreadyParked)
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *GormBookingRepository) GetByNumber(ctx context.Context, number string, lock bool) (*model.Booking, error) {
	q := r.db.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var b model.Booking
	if err := q.Where("booking_number = ?", number).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, parking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

func (r *GormBookingRepository) FindActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND status = ?", vehicleID, model.BookingStatusActive).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, parking.ErrNoActiveBooking
		}
		return nil, fmt.Errorf("find active booking: %w", err)
	}
	return &b, nil
}

func (r *GormBookingRepository) Complete(ctx context.Context, id uuid.UUID, exit time.Time, hours int64, amount float64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ? AND status = ?", id, model.BookingStatusActive).
		Updates(map[string]any{
			"status":         model.BookingStatusCompleted,
			"payment_status": model.PaymentStatusPaid,
			"exit_time":      exit,
			"duration_hours": hours,
			"total_amount":   amount,
		})
	if res.Error != nil {
		return fmt.Errorf("complete booking: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return parking.ErrNotActive
	}
	return nil
}

func (r *GormBookingRepository) ListByEntryRange(ctx context.Context, from, to time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("entry_time >= ? AND entry_time < ?", from.UTC(), to.UTC()).
		Order("entry_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListActiveByLocation(ctx context.Context, locationID int64) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Slot").
		Where("location_id = ? AND status = ?", locationID, model.BookingStatusActive).
		Order("entry_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}
	return bookings, nil
}

func (r *GormBookingRepository) RevenueByLocation(ctx context.Context, locationID int64) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("location_id = ? AND status = ?", locationID, model.BookingStatusCompleted).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("location revenue: %w", err)
	}
	return total, nil
}
