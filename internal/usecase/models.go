package usecase

import (
	"encoding/json"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// PRODUCT USECASE

// ProductPayload — сырое тело запроса на создание/обновление продукта.
// Ключ отсутствует, если поле не передано; значение null хранится как "null".
type ProductPayload map[string]json.RawMessage

const (
	FieldName           = "name"
	FieldPrice          = "price"
	FieldWarrantyPeriod = "warranty_period"
	FieldBody           = "body"
)

// CreateProductReq — провалидированный запрос на создание продукта.
type CreateProductReq struct {
	Name           string
	Price          decimal.Decimal
	WarrantyPeriod *int32 // nil, если срок гарантии не передан
}

// UpdateProductReq — провалидированный запрос на частичное обновление.
// nil-поля не изменяются.
type UpdateProductReq struct {
	Name           *string
	Price          *decimal.Decimal
	WarrantyPeriod *int32
}

// HasProductChanges сообщает, нужно ли обновлять саму запись продукта.
func (r *UpdateProductReq) HasProductChanges() bool {
	return r.Name != nil || r.Price != nil
}

// ProductDetails — продукт вместе с гарантией (если она есть).
type ProductDetails struct {
	Product  domain.Product
	Warranty *domain.Warranty
}

// MAPPERS

func NewProductDetails(product domain.Product, warranty *domain.Warranty) *ProductDetails {
	return &ProductDetails{
		Product:  product,
		Warranty: warranty,
	}
}

func NewCreateProductReq(name string, price decimal.Decimal, warrantyPeriod *int32) *CreateProductReq {
	return &CreateProductReq{
		Name:           name,
		Price:          price,
		WarrantyPeriod: warrantyPeriod,
	}
}
