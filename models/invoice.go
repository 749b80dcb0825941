package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/utils"
	"gorm.io/gorm"
)

const invoiceDateLayout = "2006-01-02"

type Invoice struct {
	ID            int             `gorm:"primary_key" json:"id"`
	InvoiceNumber string          `gorm:"size:50;not null" json:"invoice_number"`
	InvoiceDate   time.Time       `gorm:"type:date;not null;index" json:"invoice_date"`
	SubTotal      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sub_total"`
	Iva           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"iva"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	CustomerId    int             `gorm:"not null;index" json:"customer"`
	BusinessId    int             `gorm:"not null;index" json:"business"`
	PaymentTypeId int             `gorm:"not null" json:"payment_type"`
	Sales         []Sale          `gorm:"many2many:invoice_sales" json:"sale"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInvoiceLine struct {
	Product  int `json:"product" binding:"required"`
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

type NewInvoice struct {
	InvoiceNumber string           `json:"invoice_number" binding:"required"`
	InvoiceDate   string           `json:"invoice_date" binding:"required"`
	SubTotal      decimal.Decimal  `json:"sub_total" binding:"required"`
	Iva           decimal.Decimal  `json:"iva"`
	Total         decimal.Decimal  `json:"total" binding:"required"`
	Customer      int              `json:"customer" binding:"required"`
	PaymentType   int              `json:"payment_type" binding:"required"`
	Sale          []NewInvoiceLine `json:"sale" binding:"required,min=1,dive"`
}

type UpdateInvoiceInput struct {
	InvoiceNumber *string          `json:"invoice_number"`
	InvoiceDate   *string          `json:"invoice_date"`
	SubTotal      *decimal.Decimal `json:"sub_total"`
	Iva           *decimal.Decimal `json:"iva"`
	Total         *decimal.Decimal `json:"total"`
	Customer      *int             `json:"customer"`
	PaymentType   *int             `json:"payment_type"`
}

// CreateInvoice runs the whole issuance inside one transaction: stock
// decrements, sale line snapshots, the invoice row with its line set, and the
// business invoice counter. A failure at any step rolls back everything.
func CreateInvoice(ctx context.Context, businessId int, input *NewInvoice) (*Invoice, error) {
	db := config.GetDB()

	invoiceDate, err := time.Parse(invoiceDateLayout, input.InvoiceDate)
	if err != nil {
		return nil, utils.InvalidInputError("invoice_date must be YYYY-MM-DD")
	}
	if _, err := GetCustomer(ctx, businessId, input.Customer); err != nil {
		return nil, err
	}
	if _, err := GetPaymentType(ctx, input.PaymentType); err != nil {
		return nil, err
	}

	invoice := Invoice{
		InvoiceNumber: input.InvoiceNumber,
		InvoiceDate:   invoiceDate,
		SubTotal:      input.SubTotal,
		Iva:           input.Iva,
		Total:         input.Total,
		CustomerId:    input.Customer,
		BusinessId:    businessId,
		PaymentTypeId: input.PaymentType,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range input.Sale {
			product, err := SubtractStock(ctx, tx, businessId, line.Product, line.Quantity)
			if err != nil {
				return err
			}
			invoice.Sales = append(invoice.Sales, Sale{
				ProductId:       product.ID,
				Quantity:        line.Quantity,
				CostPriceAtTime: product.CostPrice,
				SalePriceAtTime: product.SalePrice,
			})
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		return IncrementLastRegisteredInvoice(tx, businessId)
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func ListInvoices(ctx context.Context, businessId int) ([]Invoice, error) {
	db := config.GetDB()
	invoices := []Invoice{}
	err := db.WithContext(ctx).Model(&Invoice{}).Preload("Sales").
		Where("business_id = ?", businessId).
		Order("id").Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func GetInvoice(ctx context.Context, businessId int, id int) (*Invoice, error) {
	db := config.GetDB()
	var invoice Invoice
	err := db.WithContext(ctx).Model(&Invoice{}).Preload("Sales").
		Where("id = ? AND business_id = ?", id, businessId).
		Take(&invoice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// UpdateInvoice edits header fields only. Sale lines are immutable through
// this path; stock already moved when the invoice was issued.
func UpdateInvoice(ctx context.Context, businessId int, id int, input *UpdateInvoiceInput) (*Invoice, error) {
	db := config.GetDB()
	invoice, err := GetInvoice(ctx, businessId, id)
	if err != nil {
		return nil, err
	}
	values := map[string]interface{}{}
	if input.InvoiceNumber != nil {
		values["invoice_number"] = *input.InvoiceNumber
	}
	if input.InvoiceDate != nil {
		invoiceDate, err := time.Parse(invoiceDateLayout, *input.InvoiceDate)
		if err != nil {
			return nil, utils.InvalidInputError("invoice_date must be YYYY-MM-DD")
		}
		values["invoice_date"] = invoiceDate
	}
	if input.SubTotal != nil {
		values["sub_total"] = *input.SubTotal
	}
	if input.Iva != nil {
		values["iva"] = *input.Iva
	}
	if input.Total != nil {
		values["total"] = *input.Total
	}
	if input.Customer != nil {
		if _, err := GetCustomer(ctx, businessId, *input.Customer); err != nil {
			return nil, err
		}
		values["customer_id"] = *input.Customer
	}
	if input.PaymentType != nil {
		if _, err := GetPaymentType(ctx, *input.PaymentType); err != nil {
			return nil, err
		}
		values["payment_type_id"] = *input.PaymentType
	}
	if len(values) == 0 {
		return invoice, nil
	}
	err = db.WithContext(ctx).Model(&Invoice{}).
		Where("id = ?", invoice.ID).Updates(values).Error
	if err != nil {
		return nil, err
	}
	return GetInvoice(ctx, businessId, id)
}

// DeleteInvoice removes the invoice, its line rows and the join rows. Stock
// is not returned; issued invoices reflect sales that happened.
func DeleteInvoice(ctx context.Context, businessId int, id int) error {
	db := config.GetDB()
	invoice, err := GetInvoice(ctx, businessId, id)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(invoice).Association("Sales").Clear(); err != nil {
			return err
		}
		for _, sale := range invoice.Sales {
			if err := tx.Delete(&Sale{}, sale.ID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&Invoice{}, invoice.ID).Error
	})
}

func InvoicesByCustomer(ctx context.Context, businessId int, customerId int) ([]Invoice, error) {
	db := config.GetDB()
	invoices := []Invoice{}
	err := db.WithContext(ctx).Model(&Invoice{}).Preload("Sales").
		Where("business_id = ? AND customer_id = ?", businessId, customerId).
		Order("id").Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// InvoicesByDateRange is inclusive on both ends.
func InvoicesByDateRange(ctx context.Context, businessId int, from string, to string) ([]Invoice, error) {
	fromDate, err := time.Parse(invoiceDateLayout, from)
	if err != nil {
		return nil, utils.InvalidInputError("initial_date must be YYYY-MM-DD")
	}
	toDate, err := time.Parse(invoiceDateLayout, to)
	if err != nil {
		return nil, utils.InvalidInputError("final_date must be YYYY-MM-DD")
	}
	if toDate.Before(fromDate) {
		return nil, utils.InvalidInputError("final_date must not precede initial_date")
	}

	db := config.GetDB()
	invoices := []Invoice{}
	err = db.WithContext(ctx).Model(&Invoice{}).Preload("Sales").
		Where("business_id = ? AND invoice_date BETWEEN ? AND ?", businessId, fromDate, toDate).
		Order("invoice_date").Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// InvoicesInMonth matches the calendar month across every year on record.
func InvoicesInMonth(ctx context.Context, businessId int, month int) ([]Invoice, error) {
	if month < 1 || month > 12 {
		return nil, utils.InvalidInputError("month must be between 1 and 12")
	}
	db := config.GetDB()
	invoices := []Invoice{}
	err := db.WithContext(ctx).Model(&Invoice{}).Preload("Sales").
		Where("business_id = ? AND MONTH(invoice_date) = ?", businessId, month).
		Order("invoice_date").Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// TotalSales sums invoice totals in decimal.Decimal, never float.
func TotalSales(ctx context.Context, businessId int) (decimal.Decimal, error) {
	db := config.GetDB()
	totals := []decimal.Decimal{}
	err := db.WithContext(ctx).Model(&Invoice{}).
		Where("business_id = ?", businessId).
		Pluck("total", &totals).Error
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return sum, nil
}
