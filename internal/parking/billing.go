package parking

import (
	"math"
	"time"
)

// Bill считает оплачиваемые часы и сумму.
// Неполный час округляется вверх, сумма тоже округляется вверх.
func Bill(entry, exit time.Time, hourlyRate float64) (hours int64, amount float64) {
	elapsed := exit.Sub(entry)
	if elapsed <= 0 {
		return 0, 0
	}
	hours = int64(elapsed / time.Hour)
	if elapsed%time.Hour != 0 {
		hours++
	}
	amount = math.Ceil(float64(hours) * hourlyRate)
	return hours, amount
}
