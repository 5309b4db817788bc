package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/care-io/service-booking/pkg/domain"
)

func TestNewService(t *testing.T) {
	svc, err := NewService("  Sick Care ", "Home nursing", 1200, "img.png", "medical", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Sick Care", svc.Name())
	assert.Equal(t, 1200.0, svc.PricePerDay())

	free, err := NewService("Volunteer Visit", "", 0, "", "", nil, nil)
	require.NoError(t, err)
	assert.Zero(t, free.PricePerDay())
}

func TestNewService_Rejects(t *testing.T) {
	_, err := NewService("", "x", 10, "", "", nil, nil)
	assert.True(t, domain.IsValidation(err))

	_, err = NewService("Care", "x", -1, "", "", nil, nil)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "pricePerDay", ve.Field)
}

func TestNewService_RejectsNonFinitePrice(t *testing.T) {
	for _, price := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := NewService("Care", "x", price, "", "", nil, nil)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "pricePerDay", ve.Field)
		assert.Equal(t, "price per day must be a finite number", ve.Message)
	}
}

func TestService_AllowsDuration(t *testing.T) {
	open, _ := NewService("Care", "", 10, "", "", nil, nil)
	assert.True(t, open.AllowsDuration("hours"))
	assert.True(t, open.AllowsDuration("days"))

	daily, _ := NewService("Care", "", 10, "", "", []string{"Days"}, nil)
	assert.True(t, daily.AllowsDuration("days"))
	assert.False(t, daily.AllowsDuration("hours"))
}
