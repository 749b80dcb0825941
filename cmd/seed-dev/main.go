package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/models"
	"gorm.io/gorm"
)

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

type refSeed struct {
	paymentTypes []models.PaymentType
	currencies   []models.Currency
	planTypes    []models.PlanType
}

func defaultRefSeed() refSeed {
	return refSeed{
		paymentTypes: []models.PaymentType{
			{Name: "Efectivo", Description: "Pago en efectivo"},
			{Name: "Transferencia", Description: "Transferencia bancaria"},
			{Name: "Tarjeta", Description: "Tarjeta de crédito o débito"},
		},
		currencies: []models.Currency{
			{Name: "Córdoba", Symbol: "C$", InternationalIdentifier: "NIO"},
			{Name: "Dólar", Symbol: "$", InternationalIdentifier: "USD"},
		},
		planTypes: []models.PlanType{
			{Name: "Free", MaxProductRecordCount: 100},
			{Name: "Basic", MaxProductRecordCount: 1000},
			{Name: "Premium", MaxProductRecordCount: 10000},
		},
	}
}

func seedRefData(db *gorm.DB, seed refSeed) error {
	for _, pt := range seed.paymentTypes {
		if err := db.Where(models.PaymentType{Name: pt.Name}).FirstOrCreate(&pt).Error; err != nil {
			return err
		}
	}
	for _, cur := range seed.currencies {
		if err := db.Where(models.Currency{InternationalIdentifier: cur.InternationalIdentifier}).FirstOrCreate(&cur).Error; err != nil {
			return err
		}
	}
	for _, plan := range seed.planTypes {
		if err := db.Where(models.PlanType{Name: plan.Name}).FirstOrCreate(&plan).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedDemoBusiness(ctx context.Context, db *gorm.DB, ownerUsername, ownerPassword string) error {
	var existing models.User
	if err := db.Model(&models.User{}).Where("username = ?", ownerUsername).Take(&existing).Error; err == nil {
		fmt.Println("demo user already seeded:", ownerUsername)
		return nil
	}

	var plan models.PlanType
	if err := db.Where("name = ?", "Free").Take(&plan).Error; err != nil {
		return err
	}
	var currency models.Currency
	if err := db.Where("international_identifier = ?", "NIO").Take(&currency).Error; err != nil {
		return err
	}

	_, business, err := models.RegisterUserWithBusiness(ctx, &models.NewUserWithBusiness{
		User: models.NewUser{
			Username: ownerUsername,
			Email:    ownerUsername + "@local",
			Password: ownerPassword,
		},
		Business: models.NewBusiness{
			Name:                "Pulpería Demo",
			AuthorizationNumber: "A-0001",
			InvoiceSeries:       "A",
			InvoiceNumber:       "0001",
			PlanType:            plan.ID,
			Currency:            currency.ID,
		},
	})
	if err != nil {
		return err
	}

	category, err := models.CreateProductCategory(ctx, business.ID, &models.NewProductCategory{
		Name: "Abarrotes",
	})
	if err != nil {
		return err
	}
	demoProducts := []models.NewProduct{
		{Name: "Arroz 1lb", Stock: 50, CostPrice: decimal.NewFromFloat(12.50), SalePrice: decimal.NewFromFloat(16.00), Category: category.ID},
		{Name: "Frijoles 1lb", Stock: 40, CostPrice: decimal.NewFromFloat(18.00), SalePrice: decimal.NewFromFloat(24.00), Category: category.ID},
		{Name: "Aceite 750ml", Stock: 20, CostPrice: decimal.NewFromFloat(45.00), SalePrice: decimal.NewFromFloat(58.00), Category: category.ID},
	}
	for i := range demoProducts {
		if _, err := models.CreateProduct(ctx, business.ID, &demoProducts[i]); err != nil {
			return err
		}
	}
	if _, err := models.CreateCustomer(ctx, business.ID, &models.NewCustomer{
		FirstName: "Cliente",
		LastName:  "Mostrador",
	}); err != nil {
		return err
	}
	fmt.Println("seeded demo business:", business.Name, "owner:", ownerUsername)
	return nil
}

func main() {
	ownerUsername := flag.String("owner-username", getenv("SEED_OWNER_USERNAME", "demo"), "Demo owner username to create/reuse")
	ownerPassword := flag.String("owner-password", strings.TrimSpace(os.Getenv("SEED_OWNER_PASSWORD")), "Demo owner password (required)")
	refOnly := flag.Bool("ref-only", false, "Seed reference data only (no demo business)")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	if err := seedRefData(db, defaultRefSeed()); err != nil {
		fmt.Fprintln(os.Stderr, "seeding reference data failed:", err)
		os.Exit(1)
	}
	fmt.Println("seeded reference data")

	if *refOnly {
		return
	}
	if strings.TrimSpace(*ownerPassword) == "" {
		fmt.Fprintln(os.Stderr, "missing required owner password: set SEED_OWNER_PASSWORD or pass --owner-password")
		os.Exit(2)
	}
	if err := seedDemoBusiness(ctx, db, strings.TrimSpace(*ownerUsername), *ownerPassword); err != nil {
		fmt.Fprintln(os.Stderr, "seeding demo business failed:", err)
		os.Exit(1)
	}
}
