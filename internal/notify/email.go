// Package notify delivers booking confirmations to customers.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/care-io/service-booking/internal/application"
	"github.com/care-io/service-booking/pkg/config"
)

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #059669;">Care.IO Booking Invoice</h2>
  <p>Thank you for booking with Care.IO! Here's your booking summary:</p>
  <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
    <tr><td style="padding: 10px; border: 1px solid #ddd; font-weight: bold;">Booking</td><td style="padding: 10px; border: 1px solid #ddd;">{{.BookingNumber}}</td></tr>
    <tr><td style="padding: 10px; border: 1px solid #ddd; font-weight: bold;">Service</td><td style="padding: 10px; border: 1px solid #ddd;">{{.ServiceName}}</td></tr>
    <tr><td style="padding: 10px; border: 1px solid #ddd; font-weight: bold;">Duration</td><td style="padding: 10px; border: 1px solid #ddd;">{{.Duration}} {{.DurationType}}</td></tr>
    <tr><td style="padding: 10px; border: 1px solid #ddd; font-weight: bold;">Total Cost</td><td style="padding: 10px; border: 1px solid #ddd;">{{.Currency}} {{.TotalCost}}</td></tr>
    <tr><td style="padding: 10px; border: 1px solid #ddd; font-weight: bold;">Status</td><td style="padding: 10px; border: 1px solid #ddd;">{{.Status}}</td></tr>
    <tr><td style="padding: 10px; border: 1px solid #ddd; font-weight: bold;">Booking Date</td><td style="padding: 10px; border: 1px solid #ddd;">{{.CreatedAt.Format "2006-01-02"}}</td></tr>
  </table>
  <p>You can track your booking status in your account dashboard.</p>
  <p>Best regards,<br/>The Care.IO Team</p>
</div>`))

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier mails an HTML invoice with a PDF copy attached.
type EmailNotifier struct {
	sender Sender
	from   string
	logger *zap.Logger
}

// NewEmailNotifier creates an EmailNotifier that sends through the SMTP server in cfg.
func NewEmailNotifier(cfg config.SMTPConfig, logger *zap.Logger) *EmailNotifier {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return NewEmailNotifierWithSender(dialer, cfg.From, logger)
}

// NewEmailNotifierWithSender creates an EmailNotifier around an existing Sender.
func NewEmailNotifierWithSender(sender Sender, from string, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{sender: sender, from: from, logger: logger}
}

// NotifyBookingCreated sends the invoice email for summary to email.
func (n *EmailNotifier) NotifyBookingCreated(ctx context.Context, email string, summary application.BookingSummary) error {
	msg, err := n.compose(email, summary)
	if err != nil {
		return err
	}

	// gomail has no context support; honour cancellation before dialing.
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := n.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send invoice email: %w", err)
	}

	n.logger.Info("invoice email sent",
		zap.String("booking_id", summary.BookingID.String()),
		zap.String("recipient", email),
	)
	return nil
}

func (n *EmailNotifier) compose(email string, summary application.BookingSummary) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := invoiceTemplate.Execute(&body, summary); err != nil {
		return nil, fmt.Errorf("render invoice email: %w", err)
	}

	invoice, err := RenderInvoice(email, summary)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.from, "Care.IO")
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Booking Invoice - "+summary.ServiceName)
	m.SetBody("text/html", body.String())
	m.Attach(summary.BookingNumber+".pdf", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(invoice)
		return err
	}))
	return m, nil
}
