package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSKU(t *testing.T) {
	sku := func(s string) *string { return &s }

	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{"upper-cases", sku("rice-1"), sku("RICE-1")},
		{"already upper", sku("RICE-1"), sku("RICE-1")},
		{"trims whitespace", sku("  bas-500 "), sku("BAS-500")},
		{"nil stays nil", nil, nil},
		{"blank becomes nil", sku("   "), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSKU(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestNormalizeSKUCollision(t *testing.T) {
	// "rice-1" and "RICE-1" must normalize to the same stored value so the
	// unique index rejects the second insert.
	a, b := "rice-1", "RICE-1"
	na, nb := NormalizeSKU(&a), NormalizeSKU(&b)
	require.NotNil(t, na)
	require.NotNil(t, nb)
	assert.Equal(t, *na, *nb)
}

func TestIsLowStock(t *testing.T) {
	assert.True(t, (&Product{CurrentStock: 5, MinStockLevel: 20}).IsLowStock())
	assert.True(t, (&Product{CurrentStock: 20, MinStockLevel: 20}).IsLowStock())
	assert.False(t, (&Product{CurrentStock: 21, MinStockLevel: 20}).IsLowStock())
}
