package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "$0"},
		{15, "$15"},
		{1234, "$1,234"},
		{1234567, "$1,234,567"},
		{-1234, "-$1,234"},
		{math.MinInt64, "-$9,223,372,036,854,775,808"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Currency(tt.in), "Currency(%d)", tt.in)
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$15.00", Money(15))
	assert.Equal(t, "$1,234.50", Money(1234.5))
	assert.Equal(t, "-$20.25", Money(-20.25))
}

func TestDelta(t *testing.T) {
	assert.Equal(t, "+1,204", Delta(1204))
	assert.Equal(t, "-87", Delta(-87))
	assert.Equal(t, "0", Delta(0))
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "9,994", Number(9994))
}
