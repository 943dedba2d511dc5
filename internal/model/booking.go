package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// bookings
//
// Частичные уникальные индексы гарантируют не больше одной активной брони
// на машину и на место.
type Booking struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey"`
	BookingNumber string        `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status        BookingStatus `gorm:"type:varchar(16);not null;index"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(16);not null"`

	EntryTime time.Time  `gorm:"not null;index"`
	ExitTime  *time.Time `gorm:""`

	// Ставка фиксируется при въезде и больше не перечитывается.
	HourlyRate    float64  `gorm:"not null"`
	DurationHours *int64   `gorm:""`
	TotalAmount   *float64 `gorm:""`

	VehicleID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_bookings_active_vehicle,where:status = 'ACTIVE'"`
	SlotID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_bookings_active_slot,where:status = 'ACTIVE'"`
	LocationID int64     `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Vehicle  *Vehicle  `gorm:"foreignKey:VehicleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Slot     *Slot     `gorm:"foreignKey:SlotID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Location *Location `gorm:"foreignKey:LocationID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// IsActive сообщает, открыта ли ещё сессия.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusActive
}
