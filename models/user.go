package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/utils"
	"gorm.io/gorm"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Email     string    `gorm:"size:100;index" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"password"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required,min=6"`
}

// NewUserWithBusiness is the structured form of the nested registration
// payload: both halves are validated before anything is persisted.
type NewUserWithBusiness struct {
	User     NewUser     `json:"user" binding:"required"`
	Business NewBusiness `json:"business" binding:"required"`
}

type LoginInfo struct {
	UserId   int       `json:"user_id"`
	Token    string    `json:"token"`
	Business *Business `json:"business"`
}

func (result *User) PrepareGive() {
	result.Password = ""
}

const mysqlDuplicateEntry = 1062

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}

func RegisterUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()

	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, utils.InvalidInputError("email is not valid")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashed),
		IsActive: utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateEntry(err) {
			return nil, utils.InvalidInputError("username already exists")
		}
		return nil, err
	}
	return &user, nil
}

// RegisterUserWithBusiness creates the user and its (single) business in one
// transaction. The product quota is seeded from the chosen plan.
func RegisterUserWithBusiness(ctx context.Context, input *NewUserWithBusiness) (*User, *Business, error) {
	db := config.GetDB()

	if input.User.Email != "" && !utils.IsValidEmail(input.User.Email) {
		return nil, nil, utils.InvalidInputError("email is not valid")
	}
	plan, err := GetPlanType(ctx, input.Business.PlanType)
	if err != nil {
		return nil, nil, utils.InvalidInputError("plan type not found")
	}
	if _, err := GetCurrency(ctx, input.Business.Currency); err != nil {
		return nil, nil, utils.InvalidInputError("currency not found")
	}

	hashed, err := utils.HashPassword(input.User.Password)
	if err != nil {
		return nil, nil, err
	}

	user := User{
		Username: input.User.Username,
		Email:    input.User.Email,
		Password: string(hashed),
		IsActive: utils.NewTrue(),
	}
	business := Business{
		Name:                            input.Business.Name,
		PhotoLink:                       input.Business.PhotoLink,
		AuthorizationNumber:             input.Business.AuthorizationNumber,
		InvoiceSeries:                   input.Business.InvoiceSeries,
		InvoiceNumber:                   input.Business.InvoiceNumber,
		LastRegisteredInvoice:           0,
		NumberOfProductRecordsAvailable: plan.MaxProductRecordCount,
		PlanTypeId:                      input.Business.PlanType,
		CurrencyId:                      input.Business.Currency,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if isDuplicateEntry(err) {
				return utils.InvalidInputError("username already exists")
			}
			return err
		}
		business.UserId = user.ID
		if err := tx.Create(&business).Error; err != nil {
			if isDuplicateEntry(err) {
				return utils.InvalidInputError("user already has a business")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &user, &business, nil
}

func tokenLifespan() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil || hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// Login checks credentials (username, or email when the identifier contains
// '@') and issues an opaque session token stored in redis.
func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {
	db := config.GetDB()

	user := User{}
	var err error
	if strings.Contains(username, "@") {
		err = db.WithContext(ctx).Model(&User{}).Where("email = ?", username).Take(&user).Error
	}
	if user.ID == 0 {
		err = db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error
	}
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, errors.New("invalid credentials")
	}

	if user.IsActive != nil && !*user.IsActive {
		return nil, errors.New("user is disabled")
	}

	token := uuid.New()
	result := LoginInfo{
		UserId: user.ID,
		Token:  token.String(),
	}

	// a user without a business yet is a valid login (spec keeps business
	// registration as a separate step)
	var business Business
	if err := db.WithContext(ctx).Model(&Business{}).Where("user_id = ?", user.ID).Take(&business).Error; err == nil {
		result.Business = &business
	}

	if err := config.AddRedisSet("Tokens:"+user.Username, token.String()); err != nil {
		return nil, err
	}
	if err := config.SetRedisValue("Token:"+token.String(), user.Username, tokenLifespan()); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout destroys the current session token.
func Logout(ctx context.Context) error {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return errors.New("token is required")
	}
	if err := config.RemoveRedisKey("Token:" + fmt.Sprint(token)); err != nil {
		return err
	}
	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok || username == "" {
		return errors.New("user not found")
	}
	if err := config.RemoveRedisSetMember("Tokens:"+username, token); err != nil {
		return err
	}
	return nil
}

// RequestPasswordReset issues a signed, short-lived reset token for the
// account behind the given email. The caller decides how to deliver it.
func RequestPasswordReset(ctx context.Context, email string) (string, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Take(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", utils.ErrorRecordNotFound
		}
		return "", err
	}
	return utils.GeneratePasswordResetToken(user.ID, user.Email)
}

// ConfirmPasswordReset verifies the reset token, stores the new password and
// revokes every live session of the user.
func ConfirmPasswordReset(ctx context.Context, token string, password string) error {
	claim, err := utils.ValidatePasswordResetToken(token)
	if err != nil {
		return utils.InvalidInputError("token is invalid or expired")
	}

	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).First(&user, claim.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorRecordNotFound
		}
		return err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Model(&User{}).Where("id = ?", user.ID).
		UpdateColumn("password", string(hashed)).Error; err != nil {
		return err
	}

	// drop all live sessions for the account
	tokens, err := config.GetRedisSetMembers("Tokens:" + user.Username)
	if err != nil {
		return err
	}
	for _, t := range tokens {
		if err := config.RemoveRedisKey("Token:" + t); err != nil {
			return err
		}
	}
	return config.RemoveRedisKey("Tokens:" + user.Username)
}
