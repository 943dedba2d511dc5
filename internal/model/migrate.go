package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей парковочного ядра.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Location{},
		&Slot{},
		&Vehicle{},
		&Booking{},
		&BookingEvent{},
	)
}
