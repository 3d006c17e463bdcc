package port

import (
	"context"

	"invoicecheck/internal/domain"
)

// InvoiceSource lists the digital invoices waiting on the client side and
// downloads their PDFs.
type InvoiceSource interface {
	ListInvoices(ctx context.Context) ([]domain.DigitalInvoice, error)
	Download(ctx context.Context, url string) ([]byte, error)
}
