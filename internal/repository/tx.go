package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Leganyst/parking-platform/internal/parking"
)

// Store собирает репозитории поверх одного соединения или одной транзакции.
type Store struct {
	db *gorm.DB

	Slots     SlotRepository
	Vehicles  VehicleRepository
	Bookings  BookingRepository
	Events    EventRepository
	Locations LocationRepository
	Users     UserRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Slots:     NewGormSlotRepository(db),
		Vehicles:  NewGormVehicleRepository(db),
		Bookings:  NewGormBookingRepository(db),
		Events:    NewGormEventRepository(db),
		Locations: NewGormLocationRepository(db),
		Users:     NewGormUserRepository(db),
	}
}

// InTx выполняет fn в одной транзакции. Репозитории внутри fn работают
// только через неё. Если откат не удался, возвращается ConsistencyError.
func (s *Store) InTx(ctx context.Context, op string, fn func(tx *Store) error) (err error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("%s: begin tx: %w", op, tx.Error)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(NewStore(tx)); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return &parking.ConsistencyError{Op: op, Cause: fmt.Errorf("rollback after %v: %w", err, rbErr)}
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}
