package converter

import (
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToDetails(model *ProductWithWarrantyModel) *usecase.ProductDetails
}

// WarrantyConverter преобразует сущности Warranty между domain и моделью PostgreSQL.
type WarrantyConverter interface {
	ToModel(entity *domain.Warranty) *WarrantyModel
	ToEntity(model *WarrantyModel) *domain.Warranty
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}

	return &ProductModel{
		ID:        entity.ID,
		Name:      entity.Name,
		Price:     entity.Price,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}

	return &domain.Product{
		ID:        model.ID,
		Name:      model.Name,
		Price:     model.Price,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// ToDetails собирает продукт и гарантию из строки JOIN.
func (c *ProductConverterImpl) ToDetails(model *ProductWithWarrantyModel) *usecase.ProductDetails {
	if model == nil {
		return nil
	}

	var warranty *domain.Warranty
	if model.WarrantyID != nil {
		warranty = &domain.Warranty{
			ID:        *model.WarrantyID,
			ProductID: model.ID,
		}
		if model.WarrantyPeriod != nil {
			warranty.WarrantyPeriod = *model.WarrantyPeriod
		}
		if model.WarrantyCreatedAt != nil {
			warranty.CreatedAt = *model.WarrantyCreatedAt
		}
		if model.WarrantyUpdatedAt != nil {
			warranty.UpdatedAt = *model.WarrantyUpdatedAt
		}
	}

	return usecase.NewProductDetails(*c.ToEntity(&model.ProductModel), warranty)
}

type WarrantyConverterImpl struct{}

func NewWarrantyConverterImpl() *WarrantyConverterImpl {
	return &WarrantyConverterImpl{}
}

func (c *WarrantyConverterImpl) ToModel(entity *domain.Warranty) *WarrantyModel {
	if entity == nil {
		return nil
	}

	return &WarrantyModel{
		ID:             entity.ID,
		ProductID:      entity.ProductID,
		WarrantyPeriod: entity.WarrantyPeriod,
		CreatedAt:      entity.CreatedAt,
		UpdatedAt:      entity.UpdatedAt,
	}
}

func (c *WarrantyConverterImpl) ToEntity(model *WarrantyModel) *domain.Warranty {
	if model == nil {
		return nil
	}

	return &domain.Warranty{
		ID:             model.ID,
		ProductID:      model.ProductID,
		WarrantyPeriod: model.WarrantyPeriod,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
