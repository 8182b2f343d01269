package usecase

import (
	"context"
	"errors"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
)

// WarrantyManager поддерживает инвариант "не более одной гарантии на продукт".
// Методы не открывают транзакцию сами, вызывающий код должен передать её в ctx.
type WarrantyManager struct {
	repo   WarrantyRepository
	logger logger.Logger
}

func NewWarrantyManager(repo WarrantyRepository, logger logger.Logger) *WarrantyManager {
	return &WarrantyManager{
		repo:   repo,
		logger: logger,
	}
}

// AttachOrReplace создаёт гарантию продукта или обновляет срок существующей.
func (w *WarrantyManager) AttachOrReplace(ctx context.Context, product *domain.Product, period int32) (*domain.Warranty, error) {
	const op = "WarrantyManager.AttachOrReplace"

	existing, err := w.repo.GetByProductID(ctx, product.ID)
	switch {
	case errors.Is(err, e.ErrWarrantyNotFound):
		created, err := w.repo.Create(ctx, domain.NewWarranty(product.ID, period))
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		w.logger.Debugf("warranty attached: product_id=%d, period=%d", product.ID, period)
		return created, nil
	case err != nil:
		return nil, e.Wrap(op, err)
	}

	// Срок не изменился
	if existing.WarrantyPeriod == period {
		return existing, nil
	}

	updated, err := w.repo.UpdatePeriod(ctx, existing.ID, period)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	w.logger.Debugf("warranty replaced: product_id=%d, period=%d->%d", product.ID, existing.WarrantyPeriod, period)
	return updated, nil
}

// Remove удаляет гарантию продукта. Отсутствие гарантии не считается ошибкой.
func (w *WarrantyManager) Remove(ctx context.Context, product *domain.Product) error {
	const op = "WarrantyManager.Remove"

	n, err := w.repo.DeleteByProductID(ctx, product.ID)
	if err != nil {
		return e.Wrap(op, err)
	}

	if n > 0 {
		w.logger.Debugf("warranty removed: product_id=%d", product.ID)
	}

	return nil
}
