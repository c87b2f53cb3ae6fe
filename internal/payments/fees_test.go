package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformFee(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   float64
	}{
		{"round amount", 1000, 150},
		{"fractional cents round up", 10.01, 1.50},
		{"small amount", 0.10, 0.02},
		{"zero", 0, 0},
		{"typical milestone", 333.33, 50.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PlatformFee(tt.amount), 1e-9)
		})
	}
}

func TestFreelancerPayout(t *testing.T) {
	assert.InDelta(t, 850.00, FreelancerPayout(1000), 1e-9)
	assert.InDelta(t, 85.00, FreelancerPayout(100), 1e-9)
}

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(100000), ToCents(1000))
	assert.Equal(t, int64(1001), ToCents(10.01))
	// 19.99 не представим точно в float64, округление обязательно
	assert.Equal(t, int64(1999), ToCents(19.99))
}

func TestFromCents(t *testing.T) {
	assert.InDelta(t, 10.01, FromCents(1001), 1e-9)
}
