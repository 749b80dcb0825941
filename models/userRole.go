package models

import (
	"context"
	"time"

	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/utils"
	"gorm.io/gorm"
)

// UserRole is a predefined role for sub-user accounts, e.g. a cashier role
// that only gets to issue invoices.
type UserRole struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Role      string    `gorm:"size:50;not null" json:"role" binding:"required"`
	Detail    string    `gorm:"size:255;default:null" json:"detail"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUserRole struct {
	Role   string `json:"role" binding:"required"`
	Detail string `json:"detail"`
}

func CreateUserRole(ctx context.Context, input *NewUserRole) (*UserRole, error) {
	db := config.GetDB()
	role := UserRole{
		Role:   input.Role,
		Detail: input.Detail,
	}
	if err := db.WithContext(ctx).Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func ListUserRoles(ctx context.Context) ([]UserRole, error) {
	db := config.GetDB()
	var roles []UserRole
	if err := db.WithContext(ctx).Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func GetUserRole(ctx context.Context, id int) (*UserRole, error) {
	db := config.GetDB()
	var role UserRole
	if err := db.WithContext(ctx).First(&role, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &role, nil
}

func UpdateUserRole(ctx context.Context, id int, input *NewUserRole) (*UserRole, error) {
	db := config.GetDB()
	role, err := GetUserRole(ctx, id)
	if err != nil {
		return nil, err
	}
	role.Role = input.Role
	role.Detail = input.Detail
	if err := db.WithContext(ctx).Save(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}

func DeleteUserRole(ctx context.Context, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&UserRole{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
