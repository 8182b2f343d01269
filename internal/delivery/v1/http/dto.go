package http

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
)

// ProductResponse — представление продукта в ответах API.
// warranty равен null, если гарантии нет.
type ProductResponse struct {
	ID        int64             `json:"id" example:"1"`
	Name      string            `json:"name" example:"Laptop"`
	Price     json.Number       `json:"price" swaggertype:"number" example:"999.99"`
	Warranty  *WarrantyResponse `json:"warranty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type WarrantyResponse struct {
	ID             int64 `json:"id" example:"1"`
	WarrantyPeriod int32 `json:"warranty_period" example:"24"`
}

// ProductRequest описывает тело запроса для документации.
// Фактический разбор идёт через usecase.ProductPayload.
type ProductRequest struct {
	Name           string  `json:"name" example:"Laptop"`
	Price          float64 `json:"price" example:"999.99"`
	WarrantyPeriod *int32  `json:"warranty_period,omitempty" example:"24"`
}

type DataResponse struct {
	Data ProductResponse `json:"data"`
}

// ListResponse используется и для списка, и для пустого каталога (с message).
type ListResponse struct {
	Message string            `json:"message,omitempty"`
	Data    []ProductResponse `json:"data"`
}

type CreatedResponse struct {
	Message string          `json:"message" example:"Product added successfully"`
	Data    ProductResponse `json:"data"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string              `json:"message" example:"Validation error"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Error   string              `json:"error,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// MAPPERS

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Message: message}
}

func NewProductResponse(details *usecase.ProductDetails) ProductResponse {
	return ProductResponse{
		ID:        details.Product.ID,
		Name:      details.Product.Name,
		Price:     json.Number(details.Product.Price.String()),
		Warranty:  newWarrantyResponse(details.Warranty),
		CreatedAt: details.Product.CreatedAt,
		UpdatedAt: details.Product.UpdatedAt,
	}
}

func NewProductListResponse(list []usecase.ProductDetails) []ProductResponse {
	res := make([]ProductResponse, 0, len(list))
	for i := range list {
		res = append(res, NewProductResponse(&list[i]))
	}
	return res
}

func newWarrantyResponse(w *domain.Warranty) *WarrantyResponse {
	if w == nil {
		return nil
	}
	return &WarrantyResponse{
		ID:             w.ID,
		WarrantyPeriod: w.WarrantyPeriod,
	}
}
