package reports

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/willtech-site/polaris_backend/config"
)

type SalesByCustomerResponse struct {
	CustomerID   int             `json:"CustomerId"`
	CustomerName string          `json:"CustomerName"`
	InvoiceCount int             `json:"InvoiceCount"`
	TotalSales   decimal.Decimal `json:"TotalSales"`
	TotalIva     decimal.Decimal `json:"TotalIva"`
}

// GetSalesByCustomerReport aggregates issued invoices per customer for one
// business.
func GetSalesByCustomerReport(ctx context.Context, businessId int) ([]*SalesByCustomerResponse, error) {

	sql := `
SELECT
    inv.customer_id,
    inv.invoice_count,
    inv.total_sales,
    inv.total_iva,
    CONCAT(customers.first_name, ' ', customers.last_name) AS customer_name
FROM
    (SELECT
        customer_id,
            COUNT(invoices.id) AS invoice_count,
            SUM(total) AS total_sales,
            SUM(iva) AS total_iva
    FROM
        invoices
    WHERE
        business_id = @businessId
    GROUP BY customer_id) AS inv
        LEFT JOIN
    customers ON customers.id = inv.customer_id;
`

	var records []*SalesByCustomerResponse
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"businessId": businessId,
	}).Scan(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r SalesByCustomerResponse) GetCellValues() []interface{} {
	return []interface{}{
		r.CustomerName,
		r.InvoiceCount,
		r.TotalSales,
		r.TotalIva,
	}
}
