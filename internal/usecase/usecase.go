package usecase

import "context"

type ProductUC interface {
	ListProducts(ctx context.Context) ([]ProductDetails, error)
	CreateProduct(ctx context.Context, payload ProductPayload) (*ProductDetails, error)
	GetProduct(ctx context.Context, id int64) (*ProductDetails, error)
	UpdateProduct(ctx context.Context, id int64, payload ProductPayload) (*ProductDetails, error)
	DeleteProduct(ctx context.Context, id int64) error
}
