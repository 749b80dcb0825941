package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/utils"
	"gorm.io/gorm"
)

// Business is the tenant account. authorization_number, invoice_series and
// invoice_number come printed on the DGI authorization; last_registered_invoice
// is the running invoice sequence (starts at 0, incremented once per issued
// invoice). number_of_product_records_available is the remaining plan quota.
type Business struct {
	ID                              int       `gorm:"primary_key" json:"id"`
	Name                            string    `gorm:"size:255;not null" json:"name" binding:"required"`
	PhotoLink                       string    `gorm:"type:text" json:"photo_link"`
	AuthorizationNumber             string    `gorm:"size:100;not null" json:"authorization_number" binding:"required"`
	InvoiceSeries                   string    `gorm:"size:50;not null" json:"invoice_series" binding:"required"`
	InvoiceNumber                   string    `gorm:"size:10;not null" json:"invoice_number" binding:"required"`
	LastRegisteredInvoice           int       `gorm:"not null;default:0" json:"last_registered_invoice"`
	NumberOfProductRecordsAvailable int       `gorm:"not null" json:"number_of_product_records_available"`
	UserId                          int       `gorm:"uniqueIndex;not null" json:"user"`
	PlanTypeId                      int       `gorm:"not null" json:"plan_type"`
	CurrencyId                      int       `gorm:"not null" json:"currency"`
	CreatedAt                       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBusiness struct {
	Name                string `json:"name" binding:"required"`
	PhotoLink           string `json:"photo_link"`
	AuthorizationNumber string `json:"authorization_number" binding:"required"`
	InvoiceSeries       string `json:"invoice_series" binding:"required"`
	InvoiceNumber       string `json:"invoice_number" binding:"required"`
	PlanType            int    `json:"plan_type" binding:"required"`
	Currency            int    `json:"currency" binding:"required"`
}

/*
caches:
	BusinessId:$username => business id (row itself is always read fresh,
	its counters move on every invoice/product write)
*/

func businessIdCacheKey(username string) string {
	return "BusinessId:" + username
}

// GetBusinessByUser resolves the authenticated caller's business. Every
// protected endpoint is scoped through this lookup.
func GetBusinessByUser(ctx context.Context) (*Business, error) {
	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok || username == "" {
		return nil, errors.New("unauthorized")
	}

	db := config.GetDB()

	var businessId int
	cached, exists, err := config.GetRedisValue(businessIdCacheKey(username))
	if err == nil && exists {
		fmt.Sscanf(cached, "%d", &businessId)
	}
	if businessId > 0 {
		business, err := GetBusinessById(ctx, businessId)
		if err == nil {
			return business, nil
		}
		// stale cache entry; fall through to the DB path
		_ = config.RemoveRedisKey(businessIdCacheKey(username))
	}

	var user User
	if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	var business Business
	if err := db.WithContext(ctx).Model(&Business{}).Where("user_id = ?", user.ID).Take(&business).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	_ = config.SetRedisValue(businessIdCacheKey(username), fmt.Sprint(business.ID), 0)
	return &business, nil
}

func GetBusinessById(ctx context.Context, id int) (*Business, error) {
	db := config.GetDB()
	var business Business
	if err := db.WithContext(ctx).First(&business, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &business, nil
}

// IncrementLastRegisteredInvoice bumps the invoice sequence as a single-row
// atomic UPDATE. Doing the arithmetic in SQL (not read-modify-write in Go)
// closes the lost-update window under concurrent issuance.
func IncrementLastRegisteredInvoice(tx *gorm.DB, businessId int) error {
	result := tx.Model(&Business{}).
		Where("id = ?", businessId).
		UpdateColumn("last_registered_invoice", gorm.Expr("last_registered_invoice + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

// ConsumeProductRecord takes one product slot off the plan quota. The guard in
// the WHERE clause makes quota exhaustion and the decrement one atomic step.
func ConsumeProductRecord(tx *gorm.DB, businessId int) error {
	result := tx.Model(&Business{}).
		Where("id = ? AND number_of_product_records_available > 0", businessId).
		UpdateColumn("number_of_product_records_available", gorm.Expr("number_of_product_records_available - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&Business{}).Where("id = ?", businessId).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return utils.ErrorRecordNotFound
		}
		return utils.ErrorQuotaExceeded
	}
	return nil
}

// ReleaseProductRecord gives a product slot back after a product delete.
func ReleaseProductRecord(tx *gorm.DB, businessId int) error {
	result := tx.Model(&Business{}).
		Where("id = ?", businessId).
		UpdateColumn("number_of_product_records_available", gorm.Expr("number_of_product_records_available + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

func GetLastRegisteredInvoice(ctx context.Context, businessId int) (int, error) {
	business, err := GetBusinessById(ctx, businessId)
	if err != nil {
		return 0, err
	}
	return business.LastRegisteredInvoice, nil
}

func currencyCacheKey(businessId int) string {
	return fmt.Sprintf("Currency:%d", businessId)
}

// GetCurrencyByBusiness serves the business currency from a short-lived redis
// object cache; currencies are effectively static reference data.
func GetCurrencyByBusiness(ctx context.Context, businessId int) (*Currency, error) {
	var cached Currency
	if hit, err := config.GetRedisObject(currencyCacheKey(businessId), &cached); err == nil && hit {
		return &cached, nil
	}

	business, err := GetBusinessById(ctx, businessId)
	if err != nil {
		return nil, err
	}
	currency, err := GetCurrency(ctx, business.CurrencyId)
	if err != nil {
		return nil, err
	}
	_ = config.SetRedisObject(currencyCacheKey(businessId), currency, time.Hour)
	return currency, nil
}

// CompleteInvoiceNumberSeries concatenates the DGI authorization fields the
// way they appear on a printed invoice header.
func (b *Business) CompleteInvoiceNumberSeries() string {
	return fmt.Sprintf("%s %s %s", b.AuthorizationNumber, b.InvoiceSeries, b.InvoiceNumber)
}
