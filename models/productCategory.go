package models

import (
	"context"
	"time"

	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/utils"
	"gorm.io/gorm"
)

type ProductCategory struct {
	ID         int       `gorm:"primary_key" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	IconLink   string    `gorm:"type:text" json:"icon_link"`
	BusinessId int       `gorm:"not null;index" json:"business"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProductCategory struct {
	Name     string `json:"name" binding:"required"`
	IconLink string `json:"icon_link"`
}

type UpdateProductCategoryInput struct {
	Name     *string `json:"name"`
	IconLink *string `json:"icon_link"`
}

func CreateProductCategory(ctx context.Context, businessId int, input *NewProductCategory) (*ProductCategory, error) {
	db := config.GetDB()
	category := ProductCategory{
		Name:       input.Name,
		IconLink:   input.IconLink,
		BusinessId: businessId,
	}
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func ListProductCategories(ctx context.Context, businessId int) ([]ProductCategory, error) {
	db := config.GetDB()
	categories := []ProductCategory{}
	err := db.WithContext(ctx).Model(&ProductCategory{}).
		Where("business_id = ?", businessId).
		Order("id").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func GetProductCategory(ctx context.Context, businessId int, id int) (*ProductCategory, error) {
	db := config.GetDB()
	var category ProductCategory
	err := db.WithContext(ctx).Model(&ProductCategory{}).
		Where("id = ? AND business_id = ?", id, businessId).
		Take(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &category, nil
}

func UpdateProductCategory(ctx context.Context, businessId int, id int, input *UpdateProductCategoryInput) (*ProductCategory, error) {
	db := config.GetDB()
	category, err := GetProductCategory(ctx, businessId, id)
	if err != nil {
		return nil, err
	}
	values := map[string]interface{}{}
	if input.Name != nil {
		values["name"] = *input.Name
	}
	if input.IconLink != nil {
		values["icon_link"] = *input.IconLink
	}
	if len(values) == 0 {
		return category, nil
	}
	err = db.WithContext(ctx).Model(&ProductCategory{}).
		Where("id = ?", category.ID).Updates(values).Error
	if err != nil {
		return nil, err
	}
	return GetProductCategory(ctx, businessId, id)
}

func DeleteProductCategory(ctx context.Context, businessId int, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessId).
		Delete(&ProductCategory{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
