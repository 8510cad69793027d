package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(4900), ToMinorUnits(49))
	assert.Equal(t, int64(0), ToMinorUnits(0))
	assert.Equal(t, "49.00", FromMinorUnits(4900))
	assert.Equal(t, "1999.50", FromMinorUnits(199950))
}

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		name      string
		mrp, sale int64
		want      int
	}{
		{"regular discount", 79, 49, 38},
		{"rounds half up", 200, 199, 1},
		{"no mrp", 0, 49, 0},
		{"mrp below sale", 40, 49, 0},
		{"equal", 49, 49, 0},
		{"free", 100, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountPercent(tt.mrp, tt.sale))
		})
	}
}

func TestDisplayAndEffectivePrice(t *testing.T) {
	assert.Equal(t, int64(79), DisplayMrp(79, 49))
	assert.Equal(t, int64(0), DisplayMrp(49, 49))
	assert.Equal(t, int64(49), EffectivePrice(79, 49))
	assert.Equal(t, int64(79), EffectivePrice(79, 0))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 100, Percent(4, 4))
}
