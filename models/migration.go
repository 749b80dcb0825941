package models

import (
	"log"

	"github.com/willtech-site/polaris_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&PaymentType{}, &Currency{}, &PlanType{},
		&User{}, &Business{},
		&UserRole{}, &SubUserRegistration{},
		&ProductCategory{}, &Product{},
		&Supplier{}, &Customer{},
		&Sale{}, &Invoice{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
