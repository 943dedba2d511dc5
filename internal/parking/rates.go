package parking

import (
	"fmt"

	"github.com/Leganyst/parking-platform/internal/model"
)

// RateCard — почасовые ставки по классам мест.
type RateCard map[model.SizeClass]float64

// DefaultRates возвращает стандартную сетку: 10 / 20 / 30.
func DefaultRates() RateCard {
	return RateCard{
		model.SizeSmall:  10,
		model.SizeMedium: 20,
		model.SizeLarge:  30,
	}
}

// Rate возвращает ставку для класса места.
func (r RateCard) Rate(class model.SizeClass) (float64, error) {
	rate, ok := r[class]
	if !ok {
		return 0, fmt.Errorf("no hourly rate for size class %q", class)
	}
	return rate, nil
}

// Validate проверяет, что ставки заданы для всех классов и не отрицательны.
func (r RateCard) Validate() error {
	for _, c := range []model.SizeClass{model.SizeSmall, model.SizeMedium, model.SizeLarge} {
		rate, ok := r[c]
		if !ok {
			return fmt.Errorf("rate card: missing rate for %s", c)
		}
		if rate < 0 {
			return fmt.Errorf("rate card: negative rate for %s", c)
		}
	}
	return nil
}
