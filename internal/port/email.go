package port

import "context"

// ReceiptEmail carries the fields rendered into the donor's receipt
// confirmation email.
type ReceiptEmail struct {
	ToEmail   string
	ToName    string
	OrgName   string
	ReceiptNo string
	Total     string
	Date      string
}

// EmailSender defines the contract for sending donor-facing email.
type EmailSender interface {
	SendReceiptEmail(ctx context.Context, email ReceiptEmail) error
}
