package e

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	err := Wrap("ProductRepo.GetByID", ErrProductNotFound)

	assert.EqualError(t, err, "ProductRepo.GetByID: product not found")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestValidationError(t *testing.T) {
	v := NewValidationError()
	assert.False(t, v.HasErrors())
	assert.NoError(t, v.OrNil())

	v.Add("price", "The price field is required.")
	v.Add("name", "The name field is required.")
	v.Add("name", "The name field must be a string.")

	err := v.OrNil()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrInternal)
	assert.Equal(t,
		"validation error: name: The name field is required.; The name field must be a string., price: The price field is required.",
		err.Error(),
	)

	var ve *ValidationError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &ve)
	assert.Len(t, ve.Fields["name"], 2)
}

func TestInternalError(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap("handler", NewInternalError("ProductUseCase.CreateProduct", cause))

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "ProductUseCase.CreateProduct: connection refused")
}
