package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

// WarrantyRepo реализует репозиторий гарантий поверх PostgreSQL.
type WarrantyRepo struct {
	db   tr.Querier
	conv converter.WarrantyConverter
}

func NewWarrantyRepo(db tr.Querier, conv converter.WarrantyConverter) *WarrantyRepo {
	return &WarrantyRepo{db: db, conv: conv}
}

// GetByProductID возвращает гарантию продукта или e.ErrWarrantyNotFound.
func (w *WarrantyRepo) GetByProductID(ctx context.Context, productID int64) (*domain.Warranty, error) {
	query := `
		SELECT id, product_id, warranty_period, created_at, updated_at
		FROM warranties
		WHERE product_id = $1;
	`

	rows, err := tr.QuerierFromCtx(ctx, w.db).Query(ctx, query, productID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.WarrantyModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrWarrantyNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return w.conv.ToEntity(&model), nil
}

// Create привязывает новую гарантию к продукту.
// Вторая гарантия для того же продукта отклоняется ограничением UNIQUE(product_id).
func (w *WarrantyRepo) Create(ctx context.Context, warranty *domain.Warranty) (*domain.Warranty, error) {
	query := `
		INSERT INTO warranties (product_id, warranty_period)
		VALUES ($1, $2)
		RETURNING id, product_id, warranty_period, created_at, updated_at;
	`

	model := w.conv.ToModel(warranty)
	rows, err := tr.QuerierFromCtx(ctx, w.db).Query(ctx, query, model.ProductID, model.WarrantyPeriod)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.WarrantyModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return w.conv.ToEntity(&created), nil
}

// UpdatePeriod меняет срок существующей гарантии, id сохраняется.
func (w *WarrantyRepo) UpdatePeriod(ctx context.Context, id int64, period int32) (*domain.Warranty, error) {
	query := `
		UPDATE warranties
		SET warranty_period = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, product_id, warranty_period, created_at, updated_at;
	`

	rows, err := tr.QuerierFromCtx(ctx, w.db).Query(ctx, query, id, period)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.WarrantyModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrWarrantyNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return w.conv.ToEntity(&updated), nil
}

// DeleteByProductID удаляет гарантию продукта и возвращает число удалённых строк.
func (w *WarrantyRepo) DeleteByProductID(ctx context.Context, productID int64) (int64, error) {
	query := `DELETE FROM warranties WHERE product_id = $1;`

	tag, err := tr.QuerierFromCtx(ctx, w.db).Exec(ctx, query, productID)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return tag.RowsAffected(), nil
}
