package convert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntToInt32Clamped(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int32
	}{
		{"zero", 0, 0},
		{"in range", 25, 25},
		{"negative in range", -7, -7},
		{"above max", math.MaxInt32 + 1, math.MaxInt32},
		{"below min", math.MinInt32 - 1, math.MinInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IntToInt32Clamped(tt.input))
		})
	}
}

func TestIntToUintClamped(t *testing.T) {
	assert.Equal(t, uint(0), IntToUintClamped(-3))
	assert.Equal(t, uint(0), IntToUintClamped(0))
	assert.Equal(t, uint(4), IntToUintClamped(4))
}
