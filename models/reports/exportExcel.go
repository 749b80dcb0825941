package reports

import (
	"fmt"
	"io"

	"github.com/willtech-site/polaris_backend/models"
	"github.com/xuri/excelize/v2"
)

const XlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExcelExporter interface {
	GetCellValues() []interface{}
}

func writeSheet(w io.Writer, headings []string, rows []ExcelExporter) error {
	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	col := 'A'
	for _, h := range headings {
		f.SetCellValue(sheetName, string(col)+"1", h)
		col++
	}

	rowNo := 2
	for _, r := range rows {
		col := 'A'
		for _, value := range r.GetCellValues() {
			f.SetCellValue(sheetName, string(col)+fmt.Sprint(rowNo), value)
			col++
		}
		rowNo++
	}

	return f.Write(w)
}

// ExportSalesByCustomerExcel renders the per-customer sales aggregation as a
// spreadsheet.
func ExportSalesByCustomerExcel(w io.Writer, records []*SalesByCustomerResponse) error {
	rows := make([]ExcelExporter, 0, len(records))
	for _, r := range records {
		rows = append(rows, *r)
	}
	return writeSheet(w,
		[]string{"Customer Name", "Invoice Count", "Total Sales", "Total Iva"},
		rows)
}

type invoiceRow struct {
	invoice models.Invoice
}

func (r invoiceRow) GetCellValues() []interface{} {
	lineCount := len(r.invoice.Sales)
	return []interface{}{
		r.invoice.InvoiceNumber,
		r.invoice.InvoiceDate.Format("2006-01-02"),
		lineCount,
		r.invoice.SubTotal,
		r.invoice.Iva,
		r.invoice.Total,
	}
}

// ExportInvoicesExcel renders an invoice list as a spreadsheet, one invoice
// per row.
func ExportInvoicesExcel(w io.Writer, invoices []models.Invoice) error {
	rows := make([]ExcelExporter, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, invoiceRow{invoice: inv})
	}
	return writeSheet(w,
		[]string{"Invoice Number", "Invoice Date", "Line Count", "Sub Total", "Iva", "Total"},
		rows)
}
