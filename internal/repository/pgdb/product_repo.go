package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

const productWithWarrantySelect = `
	SELECT
		p.id, p.name, p.price, p.created_at, p.updated_at,
		w.id AS warranty_id,
		w.warranty_period,
		w.created_at AS warranty_created_at,
		w.updated_at AS warranty_updated_at
	FROM products p
	LEFT JOIN warranties w ON w.product_id = p.id
`

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
// Внутри транзакции запросы идут через pgx.Tx из контекста, иначе через пул.
type ProductRepo struct {
	db   tr.Querier
	conv converter.ProductConverter
}

func NewProductRepo(db tr.Querier, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		db:   db,
		conv: conv,
	}
}

// Create сохраняет новый продукт и возвращает его с id и временными метками.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, price)
		VALUES ($1, $2)
		RETURNING id, name, price, created_at, updated_at;
	`

	model := p.conv.ToModel(product)
	rows, err := tr.QuerierFromCtx(ctx, p.db).Query(ctx, query, model.Name, model.Price)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&created), nil
}

// GetForUpdate читает продукт с блокировкой строки до конца транзакции.
func (p *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, price, created_at, updated_at
		FROM products
		WHERE id = $1
		FOR UPDATE;
	`

	rows, err := tr.QuerierFromCtx(ctx, p.db).Query(ctx, query, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// Update сохраняет название и цену. updated_at меняется только если значения отличаются.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		UPDATE products
		SET
			name = $2,
			price = $3,
			updated_at = CASE
				WHEN name IS DISTINCT FROM $2 OR price IS DISTINCT FROM $3 THEN NOW()
				ELSE updated_at
			END
		WHERE id = $1
		RETURNING id, name, price, created_at, updated_at;
	`

	model := p.conv.ToModel(product)
	rows, err := tr.QuerierFromCtx(ctx, p.db).Query(ctx, query, model.ID, model.Name, model.Price)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&updated), nil
}

// Delete удаляет продукт. Гарантия удаляется каскадно на уровне схемы.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1;`

	tag, err := tr.QuerierFromCtx(ctx, p.db).Exec(ctx, query, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.ErrProductNotFound
	}

	return nil
}

// GetWithWarranty возвращает продукт вместе с гарантией одним запросом.
func (p *ProductRepo) GetWithWarranty(ctx context.Context, id int64) (*usecase.ProductDetails, error) {
	query := productWithWarrantySelect + ` WHERE p.id = $1;`

	rows, err := tr.QuerierFromCtx(ctx, p.db).Query(ctx, query, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.ProductWithWarrantyModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToDetails(&model), nil
}

// ListWithWarranty возвращает все продукты с гарантиями в порядке id.
func (p *ProductRepo) ListWithWarranty(ctx context.Context) ([]usecase.ProductDetails, error) {
	query := productWithWarrantySelect + ` ORDER BY p.id;`

	rows, err := tr.QuerierFromCtx(ctx, p.db).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.ProductWithWarrantyModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make([]usecase.ProductDetails, 0, len(models))
	for i := range models {
		result = append(result, *p.conv.ToDetails(&models[i]))
	}

	return result, nil
}
