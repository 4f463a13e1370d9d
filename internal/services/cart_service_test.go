// internal/services/cart_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/nhtrieuvy/ecommerce-api/internal/utils"
)

func TestUpdateCartItemRequestAllowsZeroQuantity(t *testing.T) {
	// Quantity zero is the remove-line signal and must pass validation.
	assert.NoError(t, utils.ValidateStruct(&UpdateCartItemRequest{Quantity: 0}))
}

func TestUpdateCartItemRequestRejectsNegativeQuantity(t *testing.T) {
	err := utils.ValidateStruct(&UpdateCartItemRequest{Quantity: -1})

	assert.Error(t, err)
	details := utils.GetValidationErrors(err)
	assert.Len(t, details, 1)
	assert.Equal(t, "quantity", details[0].Field)
}

func TestAddCartItemRequestRequiresPositiveQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		valid    bool
	}{
		{"zero rejected", 0, false},
		{"negative rejected", -2, false},
		{"one accepted", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &AddCartItemRequest{ProductID: uuid.New(), Quantity: tt.quantity}
			err := utils.ValidateStruct(req)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
