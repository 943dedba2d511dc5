package parking

import (
	"strings"

	"github.com/Leganyst/parking-platform/internal/model"
)

// Тип транспортного средства, как его присылает клиент.
type VehicleType string

const (
	VehicleBike  VehicleType = "BIKE"
	VehicleCar   VehicleType = "CAR"
	VehicleSUV   VehicleType = "SUV"
	VehicleTruck VehicleType = "TRUCK"
)

// ClassFor возвращает требуемый размер места для типа ТС.
// Неизвестные типы паркуются как легковые.
func ClassFor(vehicleType string) model.SizeClass {
	switch VehicleType(strings.ToUpper(strings.TrimSpace(vehicleType))) {
	case VehicleBike:
		return model.SizeSmall
	case VehicleCar:
		return model.SizeMedium
	case VehicleSUV, VehicleTruck:
		return model.SizeLarge
	default:
		return model.SizeMedium
	}
}

// FallbackClass — класс для второй попытки, если нужный закончился.
// Запасной вариант один: LARGE.
func FallbackClass(class model.SizeClass) (model.SizeClass, bool) {
	if class == model.SizeLarge {
		return "", false
	}
	return model.SizeLarge, true
}
