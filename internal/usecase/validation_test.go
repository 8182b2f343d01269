package usecase

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloadOf(t *testing.T, body string) ProductPayload {
	t.Helper()

	var p ProductPayload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func requireValidationError(t *testing.T, err error) *e.ValidationError {
	t.Helper()

	require.Error(t, err)
	require.ErrorIs(t, err, e.ErrValidation)

	var verr *e.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr
}

func TestValidateCreateProduct_Valid(t *testing.T) {
	req, err := ValidateCreateProduct(payloadOf(t, `{"name":"  Laptop ","price":999.99,"warranty_period":24}`))
	require.NoError(t, err)

	assert.Equal(t, "Laptop", req.Name)
	assert.Equal(t, "999.99", req.Price.String())
	require.NotNil(t, req.WarrantyPeriod)
	assert.Equal(t, int32(24), *req.WarrantyPeriod)
}

func TestValidateCreateProduct_OptionalWarranty(t *testing.T) {
	for name, body := range map[string]string{
		"absent":       `{"name":"Mouse","price":25}`,
		"null":         `{"name":"Mouse","price":25,"warranty_period":null}`,
		"empty string": `{"name":"Mouse","price":25,"warranty_period":""}`,
	} {
		t.Run(name, func(t *testing.T) {
			req, err := ValidateCreateProduct(payloadOf(t, body))
			require.NoError(t, err)
			assert.Nil(t, req.WarrantyPeriod)
		})
	}
}

func TestValidateCreateProduct_NumericStrings(t *testing.T) {
	req, err := ValidateCreateProduct(payloadOf(t, `{"name":"Mouse","price":"12.50","warranty_period":"6"}`))
	require.NoError(t, err)

	assert.Equal(t, "12.5", req.Price.String())
	require.NotNil(t, req.WarrantyPeriod)
	assert.Equal(t, int32(6), *req.WarrantyPeriod)
}

func TestValidateCreateProduct_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields map[string][]string
	}{
		{
			name: "empty body",
			body: `{}`,
			fields: map[string][]string{
				FieldName:  {"The name field is required."},
				FieldPrice: {"The price field is required."},
			},
		},
		{
			name: "blank name and null price",
			body: `{"name":"   ","price":null}`,
			fields: map[string][]string{
				FieldName:  {"The name field is required."},
				FieldPrice: {"The price field is required."},
			},
		},
		{
			name: "wrong types",
			body: `{"name":42,"price":"abc","warranty_period":"twelve"}`,
			fields: map[string][]string{
				FieldName:           {"The name field must be a string."},
				FieldPrice:          {"The price field must be a number."},
				FieldWarrantyPeriod: {"The warranty period field must be an integer."},
			},
		},
		{
			name: "fractional warranty",
			body: `{"name":"Mouse","price":10,"warranty_period":1.5}`,
			fields: map[string][]string{
				FieldWarrantyPeriod: {"The warranty period field must be an integer."},
			},
		},
		{
			name: "warranty out of range",
			body: `{"name":"Mouse","price":10,"warranty_period":3000000000}`,
			fields: map[string][]string{
				FieldWarrantyPeriod: {"The warranty period field must be an integer."},
			},
		},
		{
			name: "price as bool",
			body: `{"name":"Mouse","price":true}`,
			fields: map[string][]string{
				FieldPrice: {"The price field must be a number."},
			},
		},
		{
			name: "price exponent beyond numeric range",
			body: `{"name":"Laptop","price":1e900000000}`,
			fields: map[string][]string{
				FieldPrice: {"The price field must be a number."},
			},
		},
		{
			name: "price scale beyond numeric range",
			body: `{"name":"Laptop","price":"1e-900000000"}`,
			fields: map[string][]string{
				FieldPrice: {"The price field must be a number."},
			},
		},
		{
			name: "fractional warranty as string",
			body: `{"name":"Mouse","price":10,"warranty_period":"12.0"}`,
			fields: map[string][]string{
				FieldWarrantyPeriod: {"The warranty period field must be an integer."},
			},
		},
		{
			name: "name too long",
			body: `{"name":"` + strings.Repeat("a", domain.ProductNameMaxLength+1) + `","price":10}`,
			fields: map[string][]string{
				FieldName: {"The name field must not be greater than 255 characters."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateCreateProduct(payloadOf(t, tt.body))
			verr := requireValidationError(t, err)
			assert.Equal(t, tt.fields, verr.Fields)
		})
	}
}

func TestValidateCreateProduct_IntegralWarrantyNumbers(t *testing.T) {
	for _, literal := range []string{"12.0", "1.2e1", "120e-1"} {
		t.Run(literal, func(t *testing.T) {
			req, err := ValidateCreateProduct(payloadOf(t, `{"name":"Mouse","price":25,"warranty_period":`+literal+`}`))
			require.NoError(t, err)
			require.NotNil(t, req.WarrantyPeriod)
			assert.Equal(t, int32(12), *req.WarrantyPeriod)
		})
	}
}

func TestValidateCreateProduct_PriceAtNumericLimits(t *testing.T) {
	req, err := ValidateCreateProduct(payloadOf(t, `{"name":"Mouse","price":1e131071}`))
	require.NoError(t, err)
	assert.Equal(t, int32(131071), req.Price.Exponent())

	req, err = ValidateCreateProduct(payloadOf(t, `{"name":"Mouse","price":1e-16383}`))
	require.NoError(t, err)
	assert.Equal(t, int32(-16383), req.Price.Exponent())
}

func TestValidateCreateProduct_NameLengthCountsRunes(t *testing.T) {
	_, err := ValidateCreateProduct(payloadOf(t, `{"name":"`+strings.Repeat("я", domain.ProductNameMaxLength)+`","price":1}`))
	assert.NoError(t, err)
}

func TestValidateUpdateProduct(t *testing.T) {
	t.Run("empty payload is valid", func(t *testing.T) {
		req, err := ValidateUpdateProduct(payloadOf(t, `{}`))
		require.NoError(t, err)
		assert.False(t, req.HasProductChanges())
		assert.Nil(t, req.WarrantyPeriod)
	})

	t.Run("partial", func(t *testing.T) {
		req, err := ValidateUpdateProduct(payloadOf(t, `{"price":5}`))
		require.NoError(t, err)
		assert.True(t, req.HasProductChanges())
		assert.Nil(t, req.Name)
		require.NotNil(t, req.Price)
		assert.Equal(t, "5", req.Price.String())
	})

	t.Run("present fields must not be empty", func(t *testing.T) {
		_, err := ValidateUpdateProduct(payloadOf(t, `{"name":"","price":null}`))
		verr := requireValidationError(t, err)
		assert.Equal(t, map[string][]string{
			FieldName:  {"The name field is required."},
			FieldPrice: {"The price field is required."},
		}, verr.Fields)
	})

	t.Run("null warranty is ignored", func(t *testing.T) {
		req, err := ValidateUpdateProduct(payloadOf(t, `{"warranty_period":null}`))
		require.NoError(t, err)
		assert.Nil(t, req.WarrantyPeriod)
	})

	t.Run("price beyond numeric range", func(t *testing.T) {
		for _, body := range []string{`{"price":1e900000000}`, `{"price":1e-900000000}`, `{"price":1e131072}`} {
			_, err := ValidateUpdateProduct(payloadOf(t, body))
			verr := requireValidationError(t, err)
			assert.Equal(t, []string{"The price field must be a number."}, verr.Fields[FieldPrice], body)
		}
	})

	t.Run("integral warranty number", func(t *testing.T) {
		req, err := ValidateUpdateProduct(payloadOf(t, `{"warranty_period":36.0}`))
		require.NoError(t, err)
		require.NotNil(t, req.WarrantyPeriod)
		assert.Equal(t, int32(36), *req.WarrantyPeriod)
	})

	t.Run("name too long", func(t *testing.T) {
		_, err := ValidateUpdateProduct(payloadOf(t, `{"name":"`+strings.Repeat("b", 300)+`"}`))
		verr := requireValidationError(t, err)
		assert.Equal(t, []string{"The name field must not be greater than 255 characters."}, verr.Fields[FieldName])
	})
}
