package parking

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const bookingAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// NewBookingNumber строит номер брони вида BK20250101-7Q2M9XKD.
// Дата нужна только для читаемости, уникальность даёт случайная часть.
func NewBookingNumber(now time.Time) (string, error) {
	suffix, err := gonanoid.Generate(bookingAlphabet, 10)
	if err != nil {
		return "", fmt.Errorf("generate booking number: %w", err)
	}
	return "BK" + now.UTC().Format("20060102") + "-" + suffix, nil
}
