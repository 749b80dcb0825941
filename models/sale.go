package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/utils"
	"gorm.io/gorm"
)

// Sale is one line of an invoice. Prices are snapshotted from the product at
// creation time and never recomputed afterwards.
type Sale struct {
	ID              int             `gorm:"primary_key" json:"id"`
	ProductId       int             `gorm:"not null;index" json:"product"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	CostPriceAtTime decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost_price_at_time"`
	SalePriceAtTime decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sale_price_at_time"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSale struct {
	Product  int `json:"product" binding:"required"`
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// CreateSale is the standalone path: it decrements stock and records the sale
// with no invoice linkage.
func CreateSale(ctx context.Context, businessId int, input *NewSale) (*Sale, error) {
	db := config.GetDB()
	var sale Sale
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := SubtractStock(ctx, tx, businessId, input.Product, input.Quantity)
		if err != nil {
			return err
		}
		sale = Sale{
			ProductId:       product.ID,
			Quantity:        input.Quantity,
			CostPriceAtTime: product.CostPrice,
			SalePriceAtTime: product.SalePrice,
		}
		return tx.Create(&sale).Error
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListSales scopes through the product table: every sale line points at a
// product, and products carry the business id.
func ListSales(ctx context.Context, businessId int) ([]Sale, error) {
	db := config.GetDB()
	sales := []Sale{}
	err := db.WithContext(ctx).Model(&Sale{}).
		Joins("JOIN products ON products.id = sales.product_id").
		Where("products.business_id = ?", businessId).
		Order("sales.id").Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func GetSale(ctx context.Context, businessId int, id int) (*Sale, error) {
	db := config.GetDB()
	var sale Sale
	err := db.WithContext(ctx).Model(&Sale{}).
		Joins("JOIN products ON products.id = sales.product_id").
		Where("sales.id = ? AND products.business_id = ?", id, businessId).
		Take(&sale).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &sale, nil
}

type UpdateSaleInput struct {
	Quantity *int `json:"quantity"`
}

// UpdateSale only touches the quantity and settles the stock difference. The
// price snapshots are immutable.
func UpdateSale(ctx context.Context, businessId int, id int, input *UpdateSaleInput) (*Sale, error) {
	db := config.GetDB()
	sale, err := GetSale(ctx, businessId, id)
	if err != nil {
		return nil, err
	}
	if input.Quantity == nil || *input.Quantity == sale.Quantity {
		return sale, nil
	}
	if *input.Quantity <= 0 {
		return nil, utils.InvalidInputError("quantity must be positive")
	}

	diff := *input.Quantity - sale.Quantity
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if diff > 0 {
			if _, err := SubtractStock(ctx, tx, businessId, sale.ProductId, diff); err != nil {
				return err
			}
		} else {
			err := tx.Model(&Product{}).Where("id = ?", sale.ProductId).
				UpdateColumn("stock", gorm.Expr("stock + ?", -diff)).Error
			if err != nil {
				return err
			}
		}
		return tx.Model(&Sale{}).Where("id = ?", sale.ID).
			UpdateColumn("quantity", *input.Quantity).Error
	})
	if err != nil {
		return nil, err
	}
	sale.Quantity = *input.Quantity
	return sale, nil
}

// DeleteSale returns the sold quantity to stock.
func DeleteSale(ctx context.Context, businessId int, id int) error {
	db := config.GetDB()
	sale, err := GetSale(ctx, businessId, id)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", sale.ID).Delete(&Sale{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return utils.ErrorRecordNotFound
		}
		return tx.Model(&Product{}).Where("id = ?", sale.ProductId).
			UpdateColumn("stock", gorm.Expr("stock + ?", sale.Quantity)).Error
	})
}
