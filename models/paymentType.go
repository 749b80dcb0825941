package models

import (
	"context"
	"time"

	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/utils"
	"gorm.io/gorm"
)

// PaymentType is shared reference data: Efectivo, Transferencia, Tarjeta...
type PaymentType struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Name        string    `gorm:"size:50;not null" json:"name" binding:"required"`
	Description string    `gorm:"size:255;default:null" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPaymentType struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func CreatePaymentType(ctx context.Context, input *NewPaymentType) (*PaymentType, error) {
	db := config.GetDB()
	paymentType := PaymentType{
		Name:        input.Name,
		Description: input.Description,
	}
	if err := db.WithContext(ctx).Create(&paymentType).Error; err != nil {
		return nil, err
	}
	return &paymentType, nil
}

func ListPaymentTypes(ctx context.Context) ([]PaymentType, error) {
	db := config.GetDB()
	var paymentTypes []PaymentType
	if err := db.WithContext(ctx).Order("id").Find(&paymentTypes).Error; err != nil {
		return nil, err
	}
	return paymentTypes, nil
}

func GetPaymentType(ctx context.Context, id int) (*PaymentType, error) {
	db := config.GetDB()
	var paymentType PaymentType
	if err := db.WithContext(ctx).First(&paymentType, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &paymentType, nil
}

func UpdatePaymentType(ctx context.Context, id int, input *NewPaymentType) (*PaymentType, error) {
	db := config.GetDB()
	paymentType, err := GetPaymentType(ctx, id)
	if err != nil {
		return nil, err
	}
	paymentType.Name = input.Name
	paymentType.Description = input.Description
	if err := db.WithContext(ctx).Save(paymentType).Error; err != nil {
		return nil, err
	}
	return paymentType, nil
}

func DeletePaymentType(ctx context.Context, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&PaymentType{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
