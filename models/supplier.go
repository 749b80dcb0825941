package models

import (
	"context"
	"time"

	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/utils"
	"gorm.io/gorm"
)

type Supplier struct {
	ID         int       `gorm:"primary_key" json:"id"`
	FirstName  string    `gorm:"size:100;not null" json:"first_name"`
	LastName   string    `gorm:"size:100" json:"last_name"`
	Email      string    `gorm:"size:100" json:"email"`
	Phone      string    `gorm:"size:30" json:"phone"`
	SAddress   string    `gorm:"size:255" json:"s_address"`
	BusinessId int       `gorm:"not null;index" json:"business"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	SAddress  string `json:"s_address"`
}

type UpdateSupplierInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	SAddress  *string `json:"s_address"`
}

func validateContact(email string, phone string) error {
	if email != "" && !utils.IsValidEmail(email) {
		return utils.InvalidInputError("email is not valid")
	}
	if phone != "" {
		if err := utils.ValidatePhoneNumber(phone, utils.CountryCode); err != nil {
			return utils.InvalidInputError("phone number is not valid")
		}
	}
	return nil
}

func CreateSupplier(ctx context.Context, businessId int, input *NewSupplier) (*Supplier, error) {
	db := config.GetDB()
	if err := validateContact(input.Email, input.Phone); err != nil {
		return nil, err
	}
	supplier := Supplier{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Phone:      input.Phone,
		SAddress:   input.SAddress,
		BusinessId: businessId,
	}
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func ListSuppliers(ctx context.Context, businessId int) ([]Supplier, error) {
	db := config.GetDB()
	suppliers := []Supplier{}
	err := db.WithContext(ctx).Model(&Supplier{}).
		Where("business_id = ?", businessId).
		Order("id").Find(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}

func GetSupplier(ctx context.Context, businessId int, id int) (*Supplier, error) {
	db := config.GetDB()
	var supplier Supplier
	err := db.WithContext(ctx).Model(&Supplier{}).
		Where("id = ? AND business_id = ?", id, businessId).
		Take(&supplier).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

func UpdateSupplier(ctx context.Context, businessId int, id int, input *UpdateSupplierInput) (*Supplier, error) {
	db := config.GetDB()
	supplier, err := GetSupplier(ctx, businessId, id)
	if err != nil {
		return nil, err
	}
	values := map[string]interface{}{}
	if input.FirstName != nil {
		values["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		values["last_name"] = *input.LastName
	}
	if input.Email != nil {
		if *input.Email != "" && !utils.IsValidEmail(*input.Email) {
			return nil, utils.InvalidInputError("email is not valid")
		}
		values["email"] = *input.Email
	}
	if input.Phone != nil {
		if *input.Phone != "" {
			if err := utils.ValidatePhoneNumber(*input.Phone, utils.CountryCode); err != nil {
				return nil, utils.InvalidInputError("phone number is not valid")
			}
		}
		values["phone"] = *input.Phone
	}
	if input.SAddress != nil {
		values["s_address"] = *input.SAddress
	}
	if len(values) == 0 {
		return supplier, nil
	}
	err = db.WithContext(ctx).Model(&Supplier{}).
		Where("id = ?", supplier.ID).Updates(values).Error
	if err != nil {
		return nil, err
	}
	return GetSupplier(ctx, businessId, id)
}

func DeleteSupplier(ctx context.Context, businessId int, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessId).
		Delete(&Supplier{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
