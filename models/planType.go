package models

import (
	"context"
	"time"

	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/utils"
	"gorm.io/gorm"
)

// PlanType caps how many product records a business may hold.
// Free: 100 products, Basic: 1000 products, and so on.
type PlanType struct {
	ID                    int       `gorm:"primary_key" json:"id"`
	Name                  string    `gorm:"size:100;not null" json:"name" binding:"required"`
	MaxProductRecordCount int       `gorm:"not null" json:"max_product_record_count" binding:"required"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPlanType struct {
	Name                  string `json:"name" binding:"required"`
	MaxProductRecordCount int    `json:"max_product_record_count" binding:"required,gt=0"`
}

func CreatePlanType(ctx context.Context, input *NewPlanType) (*PlanType, error) {
	db := config.GetDB()
	planType := PlanType{
		Name:                  input.Name,
		MaxProductRecordCount: input.MaxProductRecordCount,
	}
	if err := db.WithContext(ctx).Create(&planType).Error; err != nil {
		return nil, err
	}
	return &planType, nil
}

func ListPlanTypes(ctx context.Context) ([]PlanType, error) {
	db := config.GetDB()
	var planTypes []PlanType
	if err := db.WithContext(ctx).Order("id").Find(&planTypes).Error; err != nil {
		return nil, err
	}
	return planTypes, nil
}

func GetPlanType(ctx context.Context, id int) (*PlanType, error) {
	db := config.GetDB()
	var planType PlanType
	if err := db.WithContext(ctx).First(&planType, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &planType, nil
}

func UpdatePlanType(ctx context.Context, id int, input *NewPlanType) (*PlanType, error) {
	db := config.GetDB()
	planType, err := GetPlanType(ctx, id)
	if err != nil {
		return nil, err
	}
	planType.Name = input.Name
	planType.MaxProductRecordCount = input.MaxProductRecordCount
	if err := db.WithContext(ctx).Save(planType).Error; err != nil {
		return nil, err
	}
	return planType, nil
}

func DeletePlanType(ctx context.Context, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&PlanType{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
