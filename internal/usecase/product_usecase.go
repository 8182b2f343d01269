package usecase

import (
	"context"
	"errors"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/DRSN-tech/catalog-backend/internal/usecase")

// ProductUseCase реализует бизнес-логику управления продуктами и их гарантиями.
type ProductUseCase struct {
	productRepo     ProductRepository
	warrantyManager *WarrantyManager
	tx              Transactor
	logger          logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	warrantyManager *WarrantyManager,
	tx Transactor,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:     productRepo,
		warrantyManager: warrantyManager,
		tx:              tx,
		logger:          logger,
	}
}

// ListProducts возвращает все продукты с гарантиями в порядке добавления.
func (p *ProductUseCase) ListProducts(ctx context.Context) ([]ProductDetails, error) {
	const op = "ProductUseCase.ListProducts"

	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	products, err := p.productRepo.ListWithWarranty(ctx)
	if err != nil {
		return nil, p.fail(span, op, err)
	}

	if len(products) == 0 {
		return nil, e.Wrap(op, e.ErrNoProducts)
	}

	span.SetAttributes(attribute.Int("products.count", len(products)))
	return products, nil
}

// CreateProduct валидирует запрос и создаёт продукт (и гарантию, если передан срок) в одной транзакции.
func (p *ProductUseCase) CreateProduct(ctx context.Context, payload ProductPayload) (*ProductDetails, error) {
	const op = "ProductUseCase.CreateProduct"

	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	req, err := ValidateCreateProduct(payload)
	if err != nil {
		return nil, p.fail(span, op, err)
	}

	var details *ProductDetails
	err = p.tx.Do(ctx, func(ctx context.Context) error {
		product, err := p.productRepo.Create(ctx, domain.NewProduct(req.Name, req.Price))
		if err != nil {
			return err
		}

		var warranty *domain.Warranty
		if req.WarrantyPeriod != nil {
			warranty, err = p.warrantyManager.AttachOrReplace(ctx, product, *req.WarrantyPeriod)
			if err != nil {
				return err
			}
		}

		details = NewProductDetails(*product, warranty)
		return nil
	})
	if err != nil {
		return nil, p.fail(span, op, err)
	}

	span.SetAttributes(attribute.Int64("product.id", details.Product.ID))
	p.logger.Infof("product created: id=%d", details.Product.ID)

	return details, nil
}

// GetProduct возвращает продукт с гарантией.
func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*ProductDetails, error) {
	const op = "ProductUseCase.GetProduct"

	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	details, err := p.productRepo.GetWithWarranty(ctx, id)
	if err != nil {
		return nil, p.fail(span, op, err)
	}

	return details, nil
}

// UpdateProduct частично обновляет продукт и его гарантию.
// Отсутствие продукта проверяется раньше валидации тела запроса.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, id int64, payload ProductPayload) (*ProductDetails, error) {
	const op = "ProductUseCase.UpdateProduct"

	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	var details *ProductDetails
	err := p.tx.Do(ctx, func(ctx context.Context) error {
		product, err := p.productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		req, err := ValidateUpdateProduct(payload)
		if err != nil {
			return err
		}

		if req.HasProductChanges() {
			if req.Name != nil {
				product.Name = *req.Name
			}
			if req.Price != nil {
				product.Price = *req.Price
			}

			product, err = p.productRepo.Update(ctx, product)
			if err != nil {
				return err
			}
		}

		if req.WarrantyPeriod != nil {
			if _, err := p.warrantyManager.AttachOrReplace(ctx, product, *req.WarrantyPeriod); err != nil {
				return err
			}
		}

		details, err = p.productRepo.GetWithWarranty(ctx, product.ID)
		return err
	})
	if err != nil {
		return nil, p.fail(span, op, err)
	}

	p.logger.Infof("product updated: id=%d", id)

	return details, nil
}

// DeleteProduct удаляет продукт вместе с гарантией.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "ProductUseCase.DeleteProduct"

	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	err := p.tx.Do(ctx, func(ctx context.Context) error {
		product, err := p.productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := p.warrantyManager.Remove(ctx, product); err != nil {
			return err
		}

		return p.productRepo.Delete(ctx, product.ID)
	})
	if err != nil {
		return p.fail(span, op, err)
	}

	p.logger.Infof("product deleted: id=%d", id)

	return nil
}

// fail приводит ошибку к одному из классов, видимых снаружи сервиса.
// Всё, что не является "не найдено" или ошибкой валидации, становится InternalError.
func (p *ProductUseCase) fail(span trace.Span, op string, err error) error {
	switch {
	case errors.Is(err, e.ErrValidation),
		errors.Is(err, e.ErrProductNotFound),
		errors.Is(err, e.ErrNoProducts):
		return err
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	p.logger.Errorf(err, "%s failed", op)

	return e.NewInternalError(op, err)
}
