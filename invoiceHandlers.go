package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/models"
	"github.com/willtech-site/polaris_backend/models/reports"
)

func createInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		var input models.NewInvoice
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		ctx, span := tracer.Start(c.Request.Context(), "createInvoice")
		defer span.End()

		// Best-effort: serialize issuance per business to keep the retry
		// noise down. Correctness does not depend on the lock; the
		// conditional stock/counter UPDATEs inside the transaction are the
		// real guarantee.
		redisLock := config.GetRedisLock()
		var lock *redislock.Lock
		if redisLock != nil {
			var err error
			lock, err = redisLock.Obtain(ctx, fmt.Sprintf("lock:invoice:%d", business.ID), 30*time.Second, nil)
			if err != nil {
				logger.WithFields(logrus.Fields{
					"field":       "createInvoiceHandler",
					"business_id": business.ID,
				}).Warn("proceeding without redis lock: " + err.Error())
				lock = nil
			}
		}
		defer func() {
			if lock == nil {
				return
			}
			if releaseErr := lock.Release(ctx); releaseErr != nil {
				logger.WithFields(logrus.Fields{
					"field":       "createInvoiceHandler",
					"business_id": business.ID,
				}).Warn("failed to release redis lock: " + releaseErr.Error())
			}
		}()

		invoice, err := models.CreateInvoice(ctx, business.ID, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "invoice created", invoice)
	}
}

func listInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		invoices, err := models.ListInvoices(c.Request.Context(), business.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "invoices", invoices)
	}
}

func updateInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.UpdateInvoiceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		invoice, err := models.UpdateInvoice(c.Request.Context(), business.ID, id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "invoice updated", invoice)
	}
}

func deleteInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := models.DeleteInvoice(c.Request.Context(), business.ID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func totalSalesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		total, err := models.TotalSales(c.Request.Context(), business.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"total_sales": total})
	}
}

func exportInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		invoices, err := models.ListInvoices(c.Request.Context(), business.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Type", reports.XlsxContentType)
		c.Header("Content-Disposition", "attachment; filename=invoices.xlsx")
		if err := reports.ExportInvoicesExcel(c.Writer, invoices); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write file"})
		}
	}
}

func salesByCustomerReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		records, err := reports.GetSalesByCustomerReport(c.Request.Context(), business.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		if c.Query("format") == "xlsx" {
			c.Header("Content-Type", reports.XlsxContentType)
			c.Header("Content-Disposition", "attachment; filename=salesByCustomer.xlsx")
			if err := reports.ExportSalesByCustomerExcel(c.Writer, records); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write file"})
			}
			return
		}
		respondOK(c, "sales by customer", records)
	}
}
