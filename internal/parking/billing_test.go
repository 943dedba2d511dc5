package parking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBill_Rounding(t *testing.T) {
	entry := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		rate    float64
		hours   int64
		amount  float64
	}{
		{"exactly one hour", 60 * time.Minute, 10, 1, 10},
		{"one minute over", 61 * time.Minute, 10, 2, 20},
		{"one second", time.Second, 10, 1, 10},
		{"ninety minutes", 90 * time.Minute, 20, 2, 40},
		{"fractional rate rounds up", 3 * time.Hour, 2.5, 3, 8},
		{"zero elapsed", 0, 30, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, amount := Bill(entry, entry.Add(tt.elapsed), tt.rate)
			assert.Equal(t, tt.hours, hours)
			assert.Equal(t, tt.amount, amount)
		})
	}
}

func TestBill_ExitBeforeEntry(t *testing.T) {
	entry := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	hours, amount := Bill(entry, entry.Add(-time.Minute), 10)
	assert.Zero(t, hours)
	assert.Zero(t, amount)
}
