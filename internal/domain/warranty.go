package domain

import "time"

// Warranty описывает гарантию на продукт (один к одному).
// Принадлежит продукту и удаляется вместе с ним.
type Warranty struct {
	ID             int64
	ProductID      int64
	WarrantyPeriod int32 // Срок гарантии в месяцах
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewWarranty(productID int64, period int32) *Warranty {
	return &Warranty{
		ProductID:      productID,
		WarrantyPeriod: period,
	}
}
