package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/willtech-site/polaris_backend/models"
)

func createSaleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		var input models.NewSale
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		sale, err := models.CreateSale(c.Request.Context(), business.ID, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "sale created", sale)
	}
}

func listSalesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		sales, err := models.ListSales(c.Request.Context(), business.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "sales", sales)
	}
}

func updateSaleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.UpdateSaleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		sale, err := models.UpdateSale(c.Request.Context(), business.ID, id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "sale updated", sale)
	}
}

func deleteSaleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := models.DeleteSale(c.Request.Context(), business.ID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
