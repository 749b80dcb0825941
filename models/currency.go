package models

import (
	"context"
	"time"

	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/utils"
	"gorm.io/gorm"
)

// Currency: e.g. name "Córdoba", symbol "C$", international identifier "NIO".
type Currency struct {
	ID                      int       `gorm:"primary_key" json:"id"`
	Name                    string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Symbol                  string    `gorm:"size:10;not null" json:"symbol" binding:"required"`
	InternationalIdentifier string    `gorm:"size:10;not null" json:"international_identifier" binding:"required"`
	CreatedAt               time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCurrency struct {
	Name                    string `json:"name" binding:"required"`
	Symbol                  string `json:"symbol" binding:"required"`
	InternationalIdentifier string `json:"international_identifier" binding:"required"`
}

func CreateCurrency(ctx context.Context, input *NewCurrency) (*Currency, error) {
	db := config.GetDB()
	currency := Currency{
		Name:                    input.Name,
		Symbol:                  input.Symbol,
		InternationalIdentifier: input.InternationalIdentifier,
	}
	if err := db.WithContext(ctx).Create(&currency).Error; err != nil {
		return nil, err
	}
	return &currency, nil
}

func ListCurrencies(ctx context.Context) ([]Currency, error) {
	db := config.GetDB()
	var currencies []Currency
	if err := db.WithContext(ctx).Order("id").Find(&currencies).Error; err != nil {
		return nil, err
	}
	return currencies, nil
}

func GetCurrency(ctx context.Context, id int) (*Currency, error) {
	db := config.GetDB()
	var currency Currency
	if err := db.WithContext(ctx).First(&currency, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &currency, nil
}

func UpdateCurrency(ctx context.Context, id int, input *NewCurrency) (*Currency, error) {
	db := config.GetDB()
	currency, err := GetCurrency(ctx, id)
	if err != nil {
		return nil, err
	}
	currency.Name = input.Name
	currency.Symbol = input.Symbol
	currency.InternationalIdentifier = input.InternationalIdentifier
	if err := db.WithContext(ctx).Save(currency).Error; err != nil {
		return nil, err
	}
	return currency, nil
}

func DeleteCurrency(ctx context.Context, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&Currency{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
