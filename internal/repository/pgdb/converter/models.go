package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID        int64           `db:"id"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// WarrantyModel представляет запись таблицы warranties в PostgreSQL.
type WarrantyModel struct {
	ID             int64     `db:"id"`
	ProductID      int64     `db:"product_id"`
	WarrantyPeriod int32     `db:"warranty_period"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// ProductWithWarrantyModel — строка LEFT JOIN products/warranties.
// Поля гарантии равны NULL, если гарантии нет.
type ProductWithWarrantyModel struct {
	ProductModel
	WarrantyID        *int64     `db:"warranty_id"`
	WarrantyPeriod    *int32     `db:"warranty_period"`
	WarrantyCreatedAt *time.Time `db:"warranty_created_at"`
	WarrantyUpdatedAt *time.Time `db:"warranty_updated_at"`
}
