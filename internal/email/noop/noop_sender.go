package noop

import (
	"context"
	"log"

	"devasthan/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs receipt summaries to
// stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendReceiptEmail(_ context.Context, email port.ReceiptEmail) error {
	log.Printf("[NOOP EMAIL] Receipt %s for %s (%s): %s on %s",
		email.ReceiptNo, email.ToName, email.ToEmail, email.Total, email.Date)
	return nil
}
