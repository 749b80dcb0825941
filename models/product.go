package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/utils"
	"gorm.io/gorm"
)

type Product struct {
	ID          int             `gorm:"primary_key" json:"id"`
	PhotoLink   string          `gorm:"type:text" json:"photo_link"`
	Name        string          `gorm:"size:100;not null;index" json:"name"`
	Description string          `gorm:"size:255" json:"description"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost_price"`
	SalePrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sale_price"`
	WithIva     *bool           `gorm:"not null;default:false" json:"with_iva"`
	CategoryId  int             `gorm:"not null;index" json:"category"`
	BusinessId  int             `gorm:"not null;index" json:"business"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	PhotoLink   string          `json:"photo_link"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Stock       int             `json:"stock" binding:"gte=0"`
	CostPrice   decimal.Decimal `json:"cost_price" binding:"required"`
	SalePrice   decimal.Decimal `json:"sale_price" binding:"required"`
	WithIva     *bool           `json:"with_iva"`
	Category    int             `json:"category" binding:"required"`
}

type UpdateProductInput struct {
	PhotoLink   *string          `json:"photo_link"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Stock       *int             `json:"stock"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	WithIva     *bool            `json:"with_iva"`
	Category    *int             `json:"category"`
}

// CreateProduct consumes one product-record slot of the business plan quota
// and creates the row in the same transaction, so a failed insert never burns
// quota.
func CreateProduct(ctx context.Context, businessId int, input *NewProduct) (*Product, error) {
	db := config.GetDB()

	if _, err := GetProductCategory(ctx, businessId, input.Category); err != nil {
		return nil, err
	}

	withIva := input.WithIva
	if withIva == nil {
		withIva = utils.NewFalse()
	}
	product := Product{
		PhotoLink:   input.PhotoLink,
		Name:        input.Name,
		Description: input.Description,
		Stock:       input.Stock,
		CostPrice:   input.CostPrice,
		SalePrice:   input.SalePrice,
		WithIva:     withIva,
		CategoryId:  input.Category,
		BusinessId:  businessId,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ConsumeProductRecord(tx, businessId); err != nil {
			return err
		}
		return tx.Create(&product).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func ListProducts(ctx context.Context, businessId int) ([]Product, error) {
	db := config.GetDB()
	products := []Product{}
	err := db.WithContext(ctx).Model(&Product{}).
		Where("business_id = ?", businessId).
		Order("id").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func GetProduct(ctx context.Context, businessId int, id int) (*Product, error) {
	db := config.GetDB()
	var product Product
	err := db.WithContext(ctx).Model(&Product{}).
		Where("id = ? AND business_id = ?", id, businessId).
		Take(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &product, nil
}

func SearchProductsByName(ctx context.Context, businessId int, name string) ([]Product, error) {
	db := config.GetDB()
	products := []Product{}
	err := db.WithContext(ctx).Model(&Product{}).
		Where("business_id = ? AND name LIKE ?", businessId, "%"+name+"%").
		Order("id").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func UpdateProduct(ctx context.Context, businessId int, id int, input *UpdateProductInput) (*Product, error) {
	db := config.GetDB()
	product, err := GetProduct(ctx, businessId, id)
	if err != nil {
		return nil, err
	}
	values := map[string]interface{}{}
	if input.PhotoLink != nil {
		values["photo_link"] = *input.PhotoLink
	}
	if input.Name != nil {
		values["name"] = *input.Name
	}
	if input.Description != nil {
		values["description"] = *input.Description
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, utils.ErrorInsufficientStock
		}
		values["stock"] = *input.Stock
	}
	if input.CostPrice != nil {
		values["cost_price"] = *input.CostPrice
	}
	if input.SalePrice != nil {
		values["sale_price"] = *input.SalePrice
	}
	if input.WithIva != nil {
		values["with_iva"] = *input.WithIva
	}
	if input.Category != nil {
		if _, err := GetProductCategory(ctx, businessId, *input.Category); err != nil {
			return nil, err
		}
		values["category_id"] = *input.Category
	}
	if len(values) == 0 {
		return product, nil
	}
	err = db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", product.ID).Updates(values).Error
	if err != nil {
		return nil, err
	}
	return GetProduct(ctx, businessId, id)
}

// DeleteProduct releases the quota slot the product was occupying.
func DeleteProduct(ctx context.Context, businessId int, id int) error {
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND business_id = ?", id, businessId).Delete(&Product{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return utils.ErrorRecordNotFound
		}
		return ReleaseProductRecord(tx, businessId)
	})
}

// SubtractStock decrements stock atomically; the conditional update is what
// keeps stock from ever going negative under concurrent sales.
func SubtractStock(ctx context.Context, tx *gorm.DB, businessId int, productId int, quantity int) (*Product, error) {
	var product Product
	err := tx.WithContext(ctx).Model(&Product{}).
		Where("id = ? AND business_id = ?", productId, businessId).
		Take(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	result := tx.WithContext(ctx).Model(&Product{}).
		Where("id = ? AND stock >= ?", productId, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, utils.ErrorInsufficientStock
	}
	product.Stock -= quantity
	return &product, nil
}
