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

// Данные машины из запроса на въезд.
type VehicleInput struct {
	LicensePlate string
	VehicleType  string
	OwnerName    string
	PhoneNumber  string
	UserID       *uuid.UUID
}

type VehicleRepository interface {
	// Найти машину по номеру или создать. Данные известной машины не перезаписываются.
	Resolve(ctx context.Context, in VehicleInput) (*model.Vehicle, error)
	// Найти машину по номеру.
	FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error)
	// Найти машину по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	// Заблокировать строку машины до конца транзакции.
	LockByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
}

type GormVehicleRepository struct {
	db *gorm.DB
}

func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

func (r *GormVehicleRepository) Resolve(ctx context.Context, in VehicleInput) (*model.Vehicle, error) {
	plate := parking.NormalizePlate(in.LicensePlate)

	v, err := r.FindByPlate(ctx, plate)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, parking.ErrVehicleNotFound) {
		return nil, err
	}

	userID, err := r.existingUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	candidate := model.Vehicle{
		LicensePlate: plate,
		VehicleType:  in.VehicleType,
		OwnerName:    in.OwnerName,
		PhoneNumber:  in.PhoneNumber,
		UserID:       userID,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "license_plate"}}, DoNothing: true}).
		Create(&candidate).Error
	if err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}

	// при гонке побеждает первая вставка, перечитываем её
	return r.FindByPlate(ctx, plate)
}

// existingUser оставляет ссылку на владельца, только если такой пользователь есть.
func (r *GormVehicleRepository) existingUser(ctx context.Context, id *uuid.UUID) (*uuid.UUID, error) {
	if id == nil || *id == uuid.Nil {
		return nil, nil
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", *id).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("lookup owner: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	uid := *id
	return &uid, nil
}

func (r *GormVehicleRepository) FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	var v model.Vehicle
	err := r.db.WithContext(ctx).
		Where("license_plate = ?", parking.NormalizePlate(plate)).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, parking.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	return &v, nil
}

func (r *GormVehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	var v model.Vehicle
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, parking.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return &v, nil
}

func (r *GormVehicleRepository) LockByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	var v model.Vehicle
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&v, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, parking.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("lock vehicle: %w", err)
	}
	return &v, nil
}
