package models

import (
	"context"
	"time"

	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/utils"
	"gorm.io/gorm"
)

// SubUserRegistration binds an additional user account of a business to one
// of the predefined roles.
type SubUserRegistration struct {
	ID        int       `gorm:"primary_key" json:"id"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100" json:"last_name"`
	UserId    int       `gorm:"uniqueIndex;not null" json:"user"`
	RoleId    int       `gorm:"not null" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSubUserRegistration struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	User      int    `json:"user" binding:"required"`
	Role      int    `json:"role" binding:"required"`
}

type UpdateSubUserRegistrationInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *int    `json:"role"`
}

func getUserById(ctx context.Context, id int) (*User, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateSubUserRegistration validates both referenced rows first; a sub-user
// record never points at a missing account or role.
func CreateSubUserRegistration(ctx context.Context, input *NewSubUserRegistration) (*SubUserRegistration, error) {
	db := config.GetDB()
	if _, err := getUserById(ctx, input.User); err != nil {
		return nil, err
	}
	if _, err := GetUserRole(ctx, input.Role); err != nil {
		return nil, err
	}
	registration := SubUserRegistration{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		UserId:    input.User,
		RoleId:    input.Role,
	}
	if err := db.WithContext(ctx).Create(&registration).Error; err != nil {
		if isDuplicateEntry(err) {
			return nil, utils.InvalidInputError("user is already registered as a sub-user")
		}
		return nil, err
	}
	return &registration, nil
}

func ListSubUserRegistrations(ctx context.Context) ([]SubUserRegistration, error) {
	db := config.GetDB()
	var registrations []SubUserRegistration
	if err := db.WithContext(ctx).Order("id").Find(&registrations).Error; err != nil {
		return nil, err
	}
	return registrations, nil
}

func GetSubUserRegistration(ctx context.Context, id int) (*SubUserRegistration, error) {
	db := config.GetDB()
	var registration SubUserRegistration
	if err := db.WithContext(ctx).First(&registration, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &registration, nil
}

func UpdateSubUserRegistration(ctx context.Context, id int, input *UpdateSubUserRegistrationInput) (*SubUserRegistration, error) {
	db := config.GetDB()
	registration, err := GetSubUserRegistration(ctx, id)
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
	if input.Role != nil {
		if _, err := GetUserRole(ctx, *input.Role); err != nil {
			return nil, err
		}
		values["role_id"] = *input.Role
	}
	if len(values) == 0 {
		return registration, nil
	}
	err = db.WithContext(ctx).Model(&SubUserRegistration{}).
		Where("id = ?", registration.ID).Updates(values).Error
	if err != nil {
		return nil, err
	}
	return GetSubUserRegistration(ctx, id)
}

func DeleteSubUserRegistration(ctx context.Context, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&SubUserRegistration{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
