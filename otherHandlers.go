package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/models"
	"gorm.io/gorm"
)

func subtractStockHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		var input struct {
			ProductId int `json:"product_id" binding:"required"`
			Quantity  int `json:"quantity" binding:"required,gt=0"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		db := config.GetDB()
		var product *models.Product
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			var err error
			product, err = models.SubtractStock(c.Request.Context(), tx, business.ID, input.ProductId, input.Quantity)
			return err
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "stock subtracted", product)
	}
}

func customerInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		var input struct {
			Customer int `json:"customer" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		if _, err := models.GetCustomer(c.Request.Context(), business.ID, input.Customer); err != nil {
			respondError(c, err)
			return
		}
		invoices, err := models.InvoicesByCustomer(c.Request.Context(), business.ID, input.Customer)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "invoices", invoices)
	}
}

func invoicesByDateRangeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		var input struct {
			InitialDate string `json:"initial_date" binding:"required"`
			FinalDate   string `json:"final_date" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		invoices, err := models.InvoicesByDateRange(c.Request.Context(), business.ID, input.InitialDate, input.FinalDate)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "invoices", invoices)
	}
}

func invoicesInMonthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		var input struct {
			Month int `json:"mes" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		invoices, err := models.InvoicesInMonth(c.Request.Context(), business.ID, input.Month)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "invoices", invoices)
	}
}

func lastRegisteredInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		last, err := models.GetLastRegisteredInvoice(c.Request.Context(), business.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"last_registered_invoice": last})
	}
}

func currencyByBusinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		currency, err := models.GetCurrencyByBusiness(c.Request.Context(), business.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "currency", currency)
	}
}

func completeInvoiceNumberSeriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"complete_invoice_number_series": business.CompleteInvoiceNumberSeries(),
		})
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func methodNotAllowedHandler(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
}
