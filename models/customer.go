package models

import (
	"context"
	"time"

	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/utils"
	"gorm.io/gorm"
)

type Customer struct {
	ID         int       `gorm:"primary_key" json:"id"`
	FirstName  string    `gorm:"size:100;not null" json:"first_name"`
	LastName   string    `gorm:"size:100" json:"last_name"`
	Email      string    `gorm:"size:100" json:"email"`
	Phone      string    `gorm:"size:30" json:"phone"`
	CAddress   string    `gorm:"size:255" json:"c_address"`
	BusinessId int       `gorm:"not null;index" json:"business"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CAddress  string `json:"c_address"`
}

type UpdateCustomerInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	CAddress  *string `json:"c_address"`
}

func CreateCustomer(ctx context.Context, businessId int, input *NewCustomer) (*Customer, error) {
	db := config.GetDB()
	if err := validateContact(input.Email, input.Phone); err != nil {
		return nil, err
	}
	customer := Customer{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Phone:      input.Phone,
		CAddress:   input.CAddress,
		BusinessId: businessId,
	}
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func ListCustomers(ctx context.Context, businessId int) ([]Customer, error) {
	db := config.GetDB()
	customers := []Customer{}
	err := db.WithContext(ctx).Model(&Customer{}).
		Where("business_id = ?", businessId).
		Order("id").Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func GetCustomer(ctx context.Context, businessId int, id int) (*Customer, error) {
	db := config.GetDB()
	var customer Customer
	err := db.WithContext(ctx).Model(&Customer{}).
		Where("id = ? AND business_id = ?", id, businessId).
		Take(&customer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func UpdateCustomer(ctx context.Context, businessId int, id int, input *UpdateCustomerInput) (*Customer, error) {
	db := config.GetDB()
	customer, err := GetCustomer(ctx, businessId, id)
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
	if input.CAddress != nil {
		values["c_address"] = *input.CAddress
	}
	if len(values) == 0 {
		return customer, nil
	}
	err = db.WithContext(ctx).Model(&Customer{}).
		Where("id = ?", customer.ID).Updates(values).Error
	if err != nil {
		return nil, err
	}
	return GetCustomer(ctx, businessId, id)
}

func DeleteCustomer(ctx context.Context, businessId int, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessId).
		Delete(&Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
