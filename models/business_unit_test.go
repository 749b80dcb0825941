package models

import "testing"

func TestCompleteInvoiceNumberSeries(t *testing.T) {
	b := Business{
		AuthorizationNumber: "123-456-789",
		InvoiceSeries:       "A",
		InvoiceNumber:       "0001",
	}
	got := b.CompleteInvoiceNumberSeries()
	want := "123-456-789 A 0001"
	if got != want {
		t.Errorf("CompleteInvoiceNumberSeries: want %q, got %q", want, got)
	}
}
