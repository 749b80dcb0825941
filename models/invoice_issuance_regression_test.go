package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/models"
	"github.com/willtech-site/polaris_backend/utils"
	"gorm.io/gorm"
)

func setupIntegrationEnv(t *testing.T) {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "polaris_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()
}

type fixture struct {
	business    *models.Business
	customer    *models.Customer
	paymentType *models.PaymentType
	category    *models.ProductCategory
}

func registerFixture(ctx context.Context, t *testing.T, username string, maxProducts int) *fixture {
	t.Helper()

	plan, err := models.CreatePlanType(ctx, &models.NewPlanType{
		Name:                  "Plan-" + username,
		MaxProductRecordCount: maxProducts,
	})
	if err != nil {
		t.Fatalf("CreatePlanType: %v", err)
	}
	currency, err := models.CreateCurrency(ctx, &models.NewCurrency{
		Name: "Córdoba", Symbol: "C$", InternationalIdentifier: "NIO",
	})
	if err != nil {
		t.Fatalf("CreateCurrency: %v", err)
	}
	paymentType, err := models.CreatePaymentType(ctx, &models.NewPaymentType{
		Name: "Efectivo-" + username,
	})
	if err != nil {
		t.Fatalf("CreatePaymentType: %v", err)
	}

	_, business, err := models.RegisterUserWithBusiness(ctx, &models.NewUserWithBusiness{
		User: models.NewUser{
			Username: username,
			Email:    username + "@test.local",
			Password: "secret123",
		},
		Business: models.NewBusiness{
			Name:                "Negocio " + username,
			AuthorizationNumber: "A-0001",
			InvoiceSeries:       "A",
			InvoiceNumber:       "0001",
			PlanType:            plan.ID,
			Currency:            currency.ID,
		},
	})
	if err != nil {
		t.Fatalf("RegisterUserWithBusiness: %v", err)
	}
	if business.LastRegisteredInvoice != 0 {
		t.Fatalf("new business should start with counter 0; got %d", business.LastRegisteredInvoice)
	}
	if business.NumberOfProductRecordsAvailable != maxProducts {
		t.Fatalf("quota should seed from plan (%d); got %d", maxProducts, business.NumberOfProductRecordsAvailable)
	}

	category, err := models.CreateProductCategory(ctx, business.ID, &models.NewProductCategory{Name: "General"})
	if err != nil {
		t.Fatalf("CreateProductCategory: %v", err)
	}
	customer, err := models.CreateCustomer(ctx, business.ID, &models.NewCustomer{
		FirstName: "Maria", LastName: "Lopez",
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	return &fixture{
		business:    business,
		customer:    customer,
		paymentType: paymentType,
		category:    category,
	}
}

func mustProduct(ctx context.Context, t *testing.T, f *fixture, name string, stock int, cost, sale float64) *models.Product {
	t.Helper()
	p, err := models.CreateProduct(ctx, f.business.ID, &models.NewProduct{
		Name:      name,
		Stock:     stock,
		CostPrice: decimal.NewFromFloat(cost),
		SalePrice: decimal.NewFromFloat(sale),
		Category:  f.category.ID,
	})
	if err != nil {
		t.Fatalf("CreateProduct(%s): %v", name, err)
	}
	return p
}

func TestInvoiceIssuanceLifecycle(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	f := registerFixture(ctx, t, "owner1", 100)
	arroz := mustProduct(ctx, t, f, "Arroz", 5, 12.50, 16.00)
	aceite := mustProduct(ctx, t, f, "Aceite", 3, 45.00, 58.00)

	inv, err := models.CreateInvoice(ctx, f.business.ID, &models.NewInvoice{
		InvoiceNumber: "0001",
		InvoiceDate:   "2025-03-05",
		SubTotal:      decimal.NewFromFloat(90.00),
		Iva:           decimal.NewFromFloat(13.50),
		Total:         decimal.NewFromFloat(103.50),
		Customer:      f.customer.ID,
		PaymentType:   f.paymentType.ID,
		Sale: []models.NewInvoiceLine{
			{Product: arroz.ID, Quantity: 2},
			{Product: aceite.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if len(inv.Sales) != 2 {
		t.Fatalf("expected 2 sale lines; got %d", len(inv.Sales))
	}

	// stock moved for both lines
	arrozAfter, err := models.GetProduct(ctx, f.business.ID, arroz.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if arrozAfter.Stock != 3 {
		t.Fatalf("arroz stock: want 3, got %d", arrozAfter.Stock)
	}
	aceiteAfter, err := models.GetProduct(ctx, f.business.ID, aceite.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if aceiteAfter.Stock != 2 {
		t.Fatalf("aceite stock: want 2, got %d", aceiteAfter.Stock)
	}

	// counter incremented exactly once
	last, err := models.GetLastRegisteredInvoice(ctx, f.business.ID)
	if err != nil {
		t.Fatalf("GetLastRegisteredInvoice: %v", err)
	}
	if last != 1 {
		t.Fatalf("last_registered_invoice: want 1, got %d", last)
	}

	// snapshots survive later price changes
	newPrice := decimal.NewFromFloat(99.99)
	if _, err := models.UpdateProduct(ctx, f.business.ID, arroz.ID, &models.UpdateProductInput{
		SalePrice: &newPrice,
	}); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	reloaded, err := models.GetInvoice(ctx, f.business.ID, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	for _, line := range reloaded.Sales {
		if line.ProductId == arroz.ID && !line.SalePriceAtTime.Equal(decimal.NewFromFloat(16.00)) {
			t.Fatalf("sale price snapshot changed: got %s", line.SalePriceAtTime)
		}
	}
}

func TestInvoiceIssuanceRollsBackAcrossLines(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	f := registerFixture(ctx, t, "owner2", 100)
	arroz := mustProduct(ctx, t, f, "Arroz", 10, 12.50, 16.00)
	aceite := mustProduct(ctx, t, f, "Aceite", 3, 45.00, 58.00)

	_, err := models.CreateInvoice(ctx, f.business.ID, &models.NewInvoice{
		InvoiceNumber: "0001",
		InvoiceDate:   "2025-03-05",
		SubTotal:      decimal.NewFromFloat(100.00),
		Iva:           decimal.Zero,
		Total:         decimal.NewFromFloat(100.00),
		Customer:      f.customer.ID,
		PaymentType:   f.paymentType.ID,
		Sale: []models.NewInvoiceLine{
			{Product: arroz.ID, Quantity: 2},
			{Product: aceite.ID, Quantity: 4},
		},
	})
	if !errors.Is(err, utils.ErrorInsufficientStock) {
		t.Fatalf("expected insufficient stock; got %v", err)
	}

	// the first line's decrement must have rolled back
	arrozAfter, err := models.GetProduct(ctx, f.business.ID, arroz.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if arrozAfter.Stock != 10 {
		t.Fatalf("arroz stock after rollback: want 10, got %d", arrozAfter.Stock)
	}
	aceiteAfter, err := models.GetProduct(ctx, f.business.ID, aceite.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if aceiteAfter.Stock != 3 {
		t.Fatalf("aceite stock after rollback: want 3, got %d", aceiteAfter.Stock)
	}

	last, err := models.GetLastRegisteredInvoice(ctx, f.business.ID)
	if err != nil {
		t.Fatalf("GetLastRegisteredInvoice: %v", err)
	}
	if last != 0 {
		t.Fatalf("counter must not move on failed issuance; got %d", last)
	}

	// unknown product fails with not found, same rollback guarantee
	_, err = models.CreateInvoice(ctx, f.business.ID, &models.NewInvoice{
		InvoiceNumber: "0002",
		InvoiceDate:   "2025-03-06",
		SubTotal:      decimal.NewFromFloat(10.00),
		Iva:           decimal.Zero,
		Total:         decimal.NewFromFloat(10.00),
		Customer:      f.customer.ID,
		PaymentType:   f.paymentType.ID,
		Sale: []models.NewInvoiceLine{
			{Product: arroz.ID, Quantity: 1},
			{Product: 99999, Quantity: 1},
		},
	})
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected not found; got %v", err)
	}
	arrozAfter, _ = models.GetProduct(ctx, f.business.ID, arroz.ID)
	if arrozAfter.Stock != 10 {
		t.Fatalf("arroz stock after not-found rollback: want 10, got %d", arrozAfter.Stock)
	}
}

func TestReportingQueries(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	f := registerFixture(ctx, t, "owner3", 100)
	arroz := mustProduct(ctx, t, f, "Arroz", 50, 12.50, 16.00)

	issue := func(number, date string, total float64) *models.Invoice {
		t.Helper()
		inv, err := models.CreateInvoice(ctx, f.business.ID, &models.NewInvoice{
			InvoiceNumber: number,
			InvoiceDate:   date,
			SubTotal:      decimal.NewFromFloat(total),
			Iva:           decimal.Zero,
			Total:         decimal.NewFromFloat(total),
			Customer:      f.customer.ID,
			PaymentType:   f.paymentType.ID,
			Sale:          []models.NewInvoiceLine{{Product: arroz.ID, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("CreateInvoice(%s): %v", number, err)
		}
		return inv
	}

	issue("0001", "2024-03-10", 16.00)
	issue("0002", "2025-03-05", 32.00)
	issue("0003", "2025-04-01", 48.00)

	// month filter has no year component
	march, err := models.InvoicesInMonth(ctx, f.business.ID, 3)
	if err != nil {
		t.Fatalf("InvoicesInMonth: %v", err)
	}
	if len(march) != 2 {
		t.Fatalf("march invoices across years: want 2, got %d", len(march))
	}
	if _, err := models.InvoicesInMonth(ctx, f.business.ID, 13); err == nil {
		t.Fatalf("month 13 must be rejected")
	}

	// inclusive bounds on both ends
	ranged, err := models.InvoicesByDateRange(ctx, f.business.ID, "2025-03-05", "2025-04-01")
	if err != nil {
		t.Fatalf("InvoicesByDateRange: %v", err)
	}
	if len(ranged) != 2 {
		t.Fatalf("date range: want 2, got %d", len(ranged))
	}

	// a reversed range is a caller mistake, not an empty result
	var invalidInput utils.InvalidInputError
	if _, err := models.InvoicesByDateRange(ctx, f.business.ID, "2025-04-01", "2025-03-05"); !errors.As(err, &invalidInput) {
		t.Fatalf("reversed date range: want InvalidInputError, got %v", err)
	}

	byCustomer, err := models.InvoicesByCustomer(ctx, f.business.ID, f.customer.ID)
	if err != nil {
		t.Fatalf("InvoicesByCustomer: %v", err)
	}
	if len(byCustomer) != 3 {
		t.Fatalf("customer invoices: want 3, got %d", len(byCustomer))
	}

	total, err := models.TotalSales(ctx, f.business.ID)
	if err != nil {
		t.Fatalf("TotalSales: %v", err)
	}
	if !total.Equal(decimal.NewFromFloat(96.00)) {
		t.Fatalf("total sales: want 96.00, got %s", total)
	}

	// second lookup is served from the redis object cache
	for i := 0; i < 2; i++ {
		currency, err := models.GetCurrencyByBusiness(ctx, f.business.ID)
		if err != nil {
			t.Fatalf("GetCurrencyByBusiness (pass %d): %v", i, err)
		}
		if currency.InternationalIdentifier != "NIO" {
			t.Fatalf("business currency (pass %d): want NIO, got %s", i, currency.InternationalIdentifier)
		}
	}

	// invoice counter reflects the three issuances
	last, err := models.GetLastRegisteredInvoice(ctx, f.business.ID)
	if err != nil {
		t.Fatalf("GetLastRegisteredInvoice: %v", err)
	}
	if last != 3 {
		t.Fatalf("last_registered_invoice: want 3, got %d", last)
	}
}

func TestProductQuotaEnforced(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	f := registerFixture(ctx, t, "owner4", 2)
	mustProduct(ctx, t, f, "Uno", 1, 1.00, 2.00)
	dos := mustProduct(ctx, t, f, "Dos", 1, 1.00, 2.00)

	_, err := models.CreateProduct(ctx, f.business.ID, &models.NewProduct{
		Name:      "Tres",
		Stock:     1,
		CostPrice: decimal.NewFromFloat(1.00),
		SalePrice: decimal.NewFromFloat(2.00),
		Category:  f.category.ID,
	})
	if !errors.Is(err, utils.ErrorQuotaExceeded) {
		t.Fatalf("expected quota exceeded; got %v", err)
	}

	// deleting a product returns its slot
	if err := models.DeleteProduct(ctx, f.business.ID, dos.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if _, err := models.CreateProduct(ctx, f.business.ID, &models.NewProduct{
		Name:      "Tres",
		Stock:     1,
		CostPrice: decimal.NewFromFloat(1.00),
		SalePrice: decimal.NewFromFloat(2.00),
		Category:  f.category.ID,
	}); err != nil {
		t.Fatalf("CreateProduct after delete: %v", err)
	}
}

func TestStockAdjustmentAndCustomerRoundTrip(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	f := registerFixture(ctx, t, "owner6", 100)
	arroz := mustProduct(ctx, t, f, "Arroz", 10, 12.50, 16.00)

	db := config.GetDB()
	subtract := func(productId, qty int) error {
		return db.Transaction(func(tx *gorm.DB) error {
			_, err := models.SubtractStock(ctx, tx, f.business.ID, productId, qty)
			return err
		})
	}

	if err := subtract(arroz.ID, 5); err != nil {
		t.Fatalf("SubtractStock: %v", err)
	}
	after, _ := models.GetProduct(ctx, f.business.ID, arroz.ID)
	if after.Stock != 5 {
		t.Fatalf("stock after subtract: want 5, got %d", after.Stock)
	}

	// over-subtracting fails and leaves stock untouched
	if err := subtract(arroz.ID, 10); !errors.Is(err, utils.ErrorInsufficientStock) {
		t.Fatalf("expected insufficient stock; got %v", err)
	}
	after, _ = models.GetProduct(ctx, f.business.ID, arroz.ID)
	if after.Stock != 5 {
		t.Fatalf("stock must remain 5; got %d", after.Stock)
	}

	if err := subtract(99999, 1); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected not found; got %v", err)
	}

	// created customers come back from the list with identical fields
	created, err := models.CreateCustomer(ctx, f.business.ID, &models.NewCustomer{
		FirstName: "Juan",
		LastName:  "Perez",
		Email:     "juan@example.com",
		Phone:     "88881234",
		CAddress:  "Del parque 2c al sur",
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	customers, err := models.ListCustomers(ctx, f.business.ID)
	if err != nil {
		t.Fatalf("ListCustomers: %v", err)
	}
	var found *models.Customer
	for i := range customers {
		if customers[i].ID == created.ID {
			found = &customers[i]
		}
	}
	if found == nil {
		t.Fatalf("created customer missing from list")
	}
	if found.FirstName != "Juan" || found.LastName != "Perez" ||
		found.Email != "juan@example.com" || found.Phone != "88881234" ||
		found.CAddress != "Del parque 2c al sur" {
		t.Fatalf("listed customer differs from created: %+v", found)
	}
}

func TestLoginSessionLifecycle(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	f := registerFixture(ctx, t, "owner5", 100)

	info, err := models.Login(ctx, "owner5", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if info.Token == "" {
		t.Fatalf("login must issue a token")
	}
	if info.Business == nil || info.Business.ID != f.business.ID {
		t.Fatalf("login must return the user's business")
	}

	username, found, err := config.GetRedisValue("Token:" + info.Token)
	if err != nil || !found || username != "owner5" {
		t.Fatalf("session token not in redis: %q %v", username, err)
	}

	if _, err := models.Login(ctx, "owner5", "wrongpass"); err == nil {
		t.Fatalf("wrong password must fail")
	}
	// email works as the login identifier too
	if _, err := models.Login(ctx, "owner5@test.local", "secret123"); err != nil {
		t.Fatalf("Login by email: %v", err)
	}

	sessionCtx := utils.SetTokenInContext(ctx, info.Token)
	sessionCtx = utils.SetUsernameInContext(sessionCtx, "owner5")
	if err := models.Logout(sessionCtx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, found, _ := config.GetRedisValue("Token:" + info.Token); found {
		t.Fatalf("token must be gone after logout")
	}
}

func TestStandaloneSaleLifecycle(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	f := registerFixture(ctx, t, "owner7", 100)
	arroz := mustProduct(ctx, t, f, "Arroz", 10, 2.00, 3.00)

	sale, err := models.CreateSale(ctx, f.business.ID, &models.NewSale{
		Product:  arroz.ID,
		Quantity: 4,
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if !sale.CostPriceAtTime.Equal(decimal.NewFromFloat(2.00)) ||
		!sale.SalePriceAtTime.Equal(decimal.NewFromFloat(3.00)) {
		t.Fatalf("sale must snapshot prices; got %s/%s", sale.CostPriceAtTime, sale.SalePriceAtTime)
	}
	after, _ := models.GetProduct(ctx, f.business.ID, arroz.ID)
	if after.Stock != 6 {
		t.Fatalf("stock after sale: want 6, got %d", after.Stock)
	}

	// a sale beyond the remaining stock fails and moves nothing
	if _, err := models.CreateSale(ctx, f.business.ID, &models.NewSale{
		Product:  arroz.ID,
		Quantity: 7,
	}); !errors.Is(err, utils.ErrorInsufficientStock) {
		t.Fatalf("expected insufficient stock; got %v", err)
	}
	after, _ = models.GetProduct(ctx, f.business.ID, arroz.ID)
	if after.Stock != 6 {
		t.Fatalf("stock must remain 6; got %d", after.Stock)
	}

	// raising the quantity takes the difference out of stock
	six := 6
	if _, err := models.UpdateSale(ctx, f.business.ID, sale.ID, &models.UpdateSaleInput{Quantity: &six}); err != nil {
		t.Fatalf("UpdateSale up: %v", err)
	}
	after, _ = models.GetProduct(ctx, f.business.ID, arroz.ID)
	if after.Stock != 4 {
		t.Fatalf("stock after raising quantity: want 4, got %d", after.Stock)
	}

	// lowering it gives the difference back
	two := 2
	if _, err := models.UpdateSale(ctx, f.business.ID, sale.ID, &models.UpdateSaleInput{Quantity: &two}); err != nil {
		t.Fatalf("UpdateSale down: %v", err)
	}
	after, _ = models.GetProduct(ctx, f.business.ID, arroz.ID)
	if after.Stock != 8 {
		t.Fatalf("stock after lowering quantity: want 8, got %d", after.Stock)
	}

	// an update past the remaining stock fails and changes neither side
	twenty := 20
	if _, err := models.UpdateSale(ctx, f.business.ID, sale.ID, &models.UpdateSaleInput{Quantity: &twenty}); !errors.Is(err, utils.ErrorInsufficientStock) {
		t.Fatalf("expected insufficient stock; got %v", err)
	}
	reloaded, err := models.GetSale(ctx, f.business.ID, sale.ID)
	if err != nil {
		t.Fatalf("GetSale: %v", err)
	}
	if reloaded.Quantity != 2 {
		t.Fatalf("quantity after failed update: want 2, got %d", reloaded.Quantity)
	}
	after, _ = models.GetProduct(ctx, f.business.ID, arroz.ID)
	if after.Stock != 8 {
		t.Fatalf("stock after failed update: want 8, got %d", after.Stock)
	}

	// deleting the sale returns the sold quantity
	if err := models.DeleteSale(ctx, f.business.ID, sale.ID); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}
	after, _ = models.GetProduct(ctx, f.business.ID, arroz.ID)
	if after.Stock != 10 {
		t.Fatalf("stock after delete: want 10, got %d", after.Stock)
	}
	if _, err := models.GetSale(ctx, f.business.ID, sale.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("deleted sale must be gone; got %v", err)
	}
}

func TestSubUserRoleRegistration(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	registerFixture(ctx, t, "owner8", 100)
	cashierUser, err := models.RegisterUser(ctx, &models.NewUser{
		Username: "cashier8",
		Email:    "cashier8@test.local",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	cashier, err := models.CreateUserRole(ctx, &models.NewUserRole{
		Role:   "cajero",
		Detail: "solo tiene acceso a facturar",
	})
	if err != nil {
		t.Fatalf("CreateUserRole: %v", err)
	}
	admin, err := models.CreateUserRole(ctx, &models.NewUserRole{Role: "administrador"})
	if err != nil {
		t.Fatalf("CreateUserRole: %v", err)
	}

	registration, err := models.CreateSubUserRegistration(ctx, &models.NewSubUserRegistration{
		FirstName: "Pedro",
		LastName:  "Gomez",
		User:      cashierUser.ID,
		Role:      cashier.ID,
	})
	if err != nil {
		t.Fatalf("CreateSubUserRegistration: %v", err)
	}
	if registration.RoleId != cashier.ID || registration.UserId != cashierUser.ID {
		t.Fatalf("registration refs wrong: %+v", registration)
	}

	// an unknown role or user never produces a registration
	if _, err := models.CreateSubUserRegistration(ctx, &models.NewSubUserRegistration{
		FirstName: "Ana", User: cashierUser.ID, Role: 99999,
	}); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected not found for unknown role; got %v", err)
	}
	if _, err := models.CreateSubUserRegistration(ctx, &models.NewSubUserRegistration{
		FirstName: "Ana", User: 99999, Role: cashier.ID,
	}); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected not found for unknown user; got %v", err)
	}

	// one registration per user account
	var invalid utils.InvalidInputError
	if _, err := models.CreateSubUserRegistration(ctx, &models.NewSubUserRegistration{
		FirstName: "Pedro", User: cashierUser.ID, Role: admin.ID,
	}); !errors.As(err, &invalid) {
		t.Fatalf("expected duplicate registration rejection; got %v", err)
	}

	updated, err := models.UpdateSubUserRegistration(ctx, registration.ID, &models.UpdateSubUserRegistrationInput{
		Role: &admin.ID,
	})
	if err != nil {
		t.Fatalf("UpdateSubUserRegistration: %v", err)
	}
	if updated.RoleId != admin.ID {
		t.Fatalf("role change: want %d, got %d", admin.ID, updated.RoleId)
	}

	if err := models.DeleteSubUserRegistration(ctx, registration.ID); err != nil {
		t.Fatalf("DeleteSubUserRegistration: %v", err)
	}
	if _, err := models.GetSubUserRegistration(ctx, registration.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("deleted registration must be gone; got %v", err)
	}
}

func TestPasswordResetRevokesSessions(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	registerFixture(ctx, t, "owner9", 100)
	info, err := models.Login(ctx, "owner9", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := models.RequestPasswordReset(ctx, "nobody@test.local"); err == nil {
		t.Fatalf("unknown email must not yield a token")
	}
	token, err := models.RequestPasswordReset(ctx, "owner9@test.local")
	if err != nil || token == "" {
		t.Fatalf("RequestPasswordReset: %q %v", token, err)
	}

	if err := models.ConfirmPasswordReset(ctx, token, "newsecret456"); err != nil {
		t.Fatalf("ConfirmPasswordReset: %v", err)
	}

	// old credentials and old sessions are both dead
	if _, err := models.Login(ctx, "owner9", "secret123"); err == nil {
		t.Fatalf("old password must no longer work")
	}
	if _, found, _ := config.GetRedisValue("Token:" + info.Token); found {
		t.Fatalf("existing sessions must be revoked by a reset")
	}
	if _, err := models.Login(ctx, "owner9", "newsecret456"); err != nil {
		t.Fatalf("Login with new password: %v", err)
	}

	var invalid utils.InvalidInputError
	if err := models.ConfirmPasswordReset(ctx, "not-a-token", "whatever123"); !errors.As(err, &invalid) {
		t.Fatalf("garbage token must be rejected; got %v", err)
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("polaris-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("polaris-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=polaris_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
