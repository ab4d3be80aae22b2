package dominance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeak(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected bool
	}{
		{"AllSmaller", []float64{1, 2, 3}, []float64{2, 3, 4}, true},
		{"Equal", []float64{1, 2, 3}, []float64{1, 2, 3}, true},
		{"Mixed", []float64{1, 2, 3}, []float64{2, 2, 2}, false},
		{"AllLarger", []float64{3, 3, 3}, []float64{1, 1, 1}, false},
		{"Pair", []float64{0.5, 1}, []float64{0.5, 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Weak(tt.a, tt.b))
		})
	}
}

func TestStrict(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected bool
	}{
		{"AllSmaller", []float64{1, 2, 3}, []float64{2, 3, 4}, true},
		{"Equal", []float64{1, 2, 3}, []float64{1, 2, 3}, false},
		{"OneStrict", []float64{1, 2, 3}, []float64{1, 2, 4}, true},
		{"Mixed", []float64{1, 2, 3}, []float64{2, 2, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Strict(tt.a, tt.b))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal([]float64{1, 2}, []float64{1, 2}))
	assert.False(t, Equal([]float64{1, 2}, []float64{1, 3}))
}
