package models

import "time"

// Invoice statuses reported by the payment processor that count as paid.
const (
	InvoiceStatusPaid         = "PAID"
	InvoiceStatusMarkedAsPaid = "MARKED_AS_PAID"
)

// Invoice is a processor-issued invoice tracked until paid or orphaned.
type Invoice struct {
	InvoiceID   string    `json:"invoice_id"`
	ChannelID   int64     `json:"channel_id"`
	MessageID   int64     `json:"message_id"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsPaidStatus reports whether a processor status means the invoice was settled.
func IsPaidStatus(status string) bool {
	return status == InvoiceStatusPaid || status == InvoiceStatusMarkedAsPaid
}
