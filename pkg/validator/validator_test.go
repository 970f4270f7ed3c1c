package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockRequest struct {
	ProductID uuid.UUID `validate:"uuid_required"`
	Quantity  float64   `validate:"required,gt=0"`
	Unit      string    `validate:"oneof=kg ton bag sack"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct has no errors", func(t *testing.T) {
		req := stockRequest{ProductID: uuid.New(), Quantity: 25, Unit: "kg"}
		assert.Empty(t, ValidateStruct(&req))
	})

	t.Run("nil uuid fails uuid_required", func(t *testing.T) {
		req := stockRequest{Quantity: 25, Unit: "kg"}
		errs := ValidateStruct(&req)
		require.Len(t, errs, 1)
		assert.Equal(t, "uuid_required", errs[0].Tag)
		assert.Equal(t, "ProductID is required", errs[0].Message)
	})

	t.Run("gt message names the bound", func(t *testing.T) {
		req := stockRequest{ProductID: uuid.New(), Quantity: -3, Unit: "kg"}
		errs := ValidateStruct(&req)
		require.Len(t, errs, 1)
		assert.Equal(t, "gt", errs[0].Tag)
		assert.Equal(t, "Quantity must be greater than 0", errs[0].Message)
	})

	t.Run("oneof message lists allowed values", func(t *testing.T) {
		req := stockRequest{ProductID: uuid.New(), Quantity: 5, Unit: "litre"}
		errs := ValidateStruct(&req)
		require.Len(t, errs, 1)
		assert.Equal(t, "Unit must be one of: kg ton bag sack", errs[0].Message)
	})
}
