package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductNameMaxLength — максимальная длина названия продукта в символах (см. тег max в правилах валидации).
const ProductNameMaxLength = 255

// Product описывает продукт
type Product struct {
	ID        int64
	Name      string
	Price     decimal.Decimal // Хранится как NUMERIC без потери точности
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewProduct(name string, price decimal.Decimal) *Product {
	return &Product{
		Name:  name,
		Price: price,
	}
}
