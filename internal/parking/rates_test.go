package parking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leganyst/parking-platform/internal/model"
)

func TestDefaultRates(t *testing.T) {
	rates := DefaultRates()
	require.NoError(t, rates.Validate())

	r, err := rates.Rate(model.SizeMedium)
	require.NoError(t, err)
	assert.Equal(t, 20.0, r)

	_, err = rates.Rate(model.SizeClass("HUGE"))
	assert.Error(t, err)
}

func TestRateCard_Validate(t *testing.T) {
	assert.Error(t, RateCard{model.SizeSmall: 10}.Validate())
	assert.Error(t, RateCard{model.SizeSmall: -1, model.SizeMedium: 1, model.SizeLarge: 1}.Validate())
}
