package parking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestConsistencyError_Unwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := error(&ConsistencyError{Op: "rollback park", Cause: cause})

	assert.ErrorIs(t, err, ErrConsistency)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "rollback park")
}

func TestBookingNumber_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		n, err := NewBookingNumber(testNow)
		assert.NoError(t, err)
		assert.Regexp(t, `^BK20250301-[0-9A-Z]{10}$`, n)
		assert.False(t, seen[n])
		seen[n] = true
	}
}
