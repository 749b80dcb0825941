package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/willtech-site/polaris_backend/models"
)

func createProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		var input models.NewProduct
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		product, err := models.CreateProduct(c.Request.Context(), business.ID, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "product created", product)
	}
}

func listProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		products, err := models.ListProducts(c.Request.Context(), business.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "products", products)
	}
}

func searchProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		name := c.Query("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
			return
		}
		products, err := models.SearchProductsByName(c.Request.Context(), business.ID, name)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "products", products)
	}
}

func updateProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		product, err := models.UpdateProduct(c.Request.Context(), business.ID, id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "product updated", product)
	}
}

func deleteProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := models.DeleteProduct(c.Request.Context(), business.ID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func createProductCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		var input models.NewProductCategory
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		category, err := models.CreateProductCategory(c.Request.Context(), business.ID, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "category created", category)
	}
}

func listProductCategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		categories, err := models.ListProductCategories(c.Request.Context(), business.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "categories", categories)
	}
}

func updateProductCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.UpdateProductCategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		category, err := models.UpdateProductCategory(c.Request.Context(), business.ID, id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "category updated", category)
	}
}

func deleteProductCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := models.DeleteProductCategory(c.Request.Context(), business.ID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func createCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		var input models.NewCustomer
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		customer, err := models.CreateCustomer(c.Request.Context(), business.ID, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "customer created", customer)
	}
}

func listCustomersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		customers, err := models.ListCustomers(c.Request.Context(), business.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "customers", customers)
	}
}

func updateCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.UpdateCustomerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		customer, err := models.UpdateCustomer(c.Request.Context(), business.ID, id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "customer updated", customer)
	}
}

func deleteCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := models.DeleteCustomer(c.Request.Context(), business.ID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func createSupplierHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		var input models.NewSupplier
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		supplier, err := models.CreateSupplier(c.Request.Context(), business.ID, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "supplier created", supplier)
	}
}

func listSuppliersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		suppliers, err := models.ListSuppliers(c.Request.Context(), business.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "suppliers", suppliers)
	}
}

func updateSupplierHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.UpdateSupplierInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		supplier, err := models.UpdateSupplier(c.Request.Context(), business.ID, id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "supplier updated", supplier)
	}
}

func deleteSupplierHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, ok := requireBusiness(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := models.DeleteSupplier(c.Request.Context(), business.ID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// Reference data below is shared across businesses and only needs a session.

func createPaymentTypeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		var input models.NewPaymentType
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		paymentType, err := models.CreatePaymentType(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "payment type created", paymentType)
	}
}

func listPaymentTypesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		paymentTypes, err := models.ListPaymentTypes(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "payment types", paymentTypes)
	}
}

func updatePaymentTypeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewPaymentType
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		paymentType, err := models.UpdatePaymentType(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "payment type updated", paymentType)
	}
}

func deletePaymentTypeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := models.DeletePaymentType(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func createCurrencyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		var input models.NewCurrency
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		currency, err := models.CreateCurrency(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "currency created", currency)
	}
}

func updateCurrencyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewCurrency
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		currency, err := models.UpdateCurrency(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "currency updated", currency)
	}
}

func deleteCurrencyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := models.DeleteCurrency(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func createPlanTypeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		var input models.NewPlanType
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		planType, err := models.CreatePlanType(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "plan type created", planType)
	}
}

func updatePlanTypeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewPlanType
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		planType, err := models.UpdatePlanType(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "plan type updated", planType)
	}
}

func deletePlanTypeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := models.DeletePlanType(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func createUserRoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		var input models.NewUserRole
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		role, err := models.CreateUserRole(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "user role created", role)
	}
}

func listUserRolesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		roles, err := models.ListUserRoles(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "user roles", roles)
	}
}

func updateUserRoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewUserRole
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		role, err := models.UpdateUserRole(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "user role updated", role)
	}
}

func deleteUserRoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := models.DeleteUserRole(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func createSubUserRegistrationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		var input models.NewSubUserRegistration
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		registration, err := models.CreateSubUserRegistration(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, "sub-user registered", registration)
	}
}

func listSubUserRegistrationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		registrations, err := models.ListSubUserRegistrations(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "sub-user registrations", registrations)
	}
}

func updateSubUserRegistrationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.UpdateSubUserRegistrationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		registration, err := models.UpdateSubUserRegistration(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "sub-user registration updated", registration)
	}
}

func deleteSubUserRegistrationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := models.DeleteSubUserRegistration(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listCurrenciesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(c) {
			return
		}
		currencies, err := models.ListCurrencies(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "currencies", currencies)
	}
}

func listPlanTypesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// plan catalog is public so the registration form can offer it
		planTypes, err := models.ListPlanTypes(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "plan types", planTypes)
	}
}
