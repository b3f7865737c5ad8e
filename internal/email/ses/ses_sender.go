package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"devasthan/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendReceiptEmail(ctx context.Context, email port.ReceiptEmail) error {
	subject := fmt.Sprintf("Donation receipt %s", email.ReceiptNo)
	htmlBody := buildReceiptHTML(email)
	textBody := fmt.Sprintf(
		"Dear %s,\n\nThank you for your donation of ₹%s on %s.\nYour receipt number is %s.\n\n%s",
		email.ToName, email.Total, email.Date, email.ReceiptNo, email.OrgName)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{email.ToEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildReceiptHTML(email port.ReceiptEmail) string {
	return fmt.Sprintf(`<html><body>
<p>Dear %s,</p>
<p>Thank you for your donation of <strong>&#8377;%s</strong> on %s.</p>
<p>Your receipt number is <strong>%s</strong>. Please keep it for your records.</p>
<p>%s</p>
</body></html>`, email.ToName, email.Total, email.Date, email.ReceiptNo, email.OrgName)
}
