package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// GetForUpdate блокирует строку продукта до конца транзакции.
	GetForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	GetWithWarranty(ctx context.Context, id int64) (*ProductDetails, error)
	ListWithWarranty(ctx context.Context) ([]ProductDetails, error)
}

type WarrantyRepository interface {
	GetByProductID(ctx context.Context, productID int64) (*domain.Warranty, error)
	Create(ctx context.Context, warranty *domain.Warranty) (*domain.Warranty, error)
	UpdatePeriod(ctx context.Context, id int64, period int32) (*domain.Warranty, error)
	// DeleteByProductID возвращает количество удалённых записей.
	DeleteByProductID(ctx context.Context, productID int64) (int64, error)
}

// Transactor выполняет fn в одной транзакции; репозитории берут её из ctx.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
