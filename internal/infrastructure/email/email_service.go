package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/hoangit2k2/lovepink/internal/core/ports"
)

// EmailConfig holds email service configuration
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	CompanyName    string
}

// codeTemplate renders the verification-code email body.
const codeTemplate = `
<div style="font-family:sans-serif;max-width:480px;margin:0 auto">
  <h2>{{.CompanyName}} account verification</h2>
  <p>Use this code to continue. It expires in about a minute, so enter it right away.</p>
  <p style="font-size:28px;letter-spacing:4px;font-weight:bold">{{.Code}}</p>
  <p>If you did not request this code you can ignore this message.</p>
</div>`

// EmailService delivers verification codes through SendGrid.
type EmailService struct {
	config   *EmailConfig
	logger   *logrus.Logger
	client   *sendgrid.Client
	template *template.Template
}

var _ ports.MailSender = (*EmailService)(nil)

// NewEmailService creates a new email service instance
func NewEmailService(config *EmailConfig, logger *logrus.Logger) (*EmailService, error) {
	tmpl, err := template.New("verification_code").Parse(codeTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse verification code template: %w", err)
	}

	return &EmailService{
		config:   config,
		logger:   logger,
		client:   sendgrid.NewSendClient(config.SendGridAPIKey),
		template: tmpl,
	}, nil
}

type codeEmailData struct {
	CompanyName string
	Code        string
}

// SendVerificationCode mails the recovery code to recipient.
func (e *EmailService) SendVerificationCode(ctx context.Context, recipient, code string) error {
	var buf bytes.Buffer
	if err := e.template.Execute(&buf, codeEmailData{CompanyName: e.config.CompanyName, Code: code}); err != nil {
		return fmt.Errorf("failed to render verification code email: %w", err)
	}

	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	to := mail.NewEmail("", recipient)
	subject := fmt.Sprintf("Your %s verification code", e.config.CompanyName)
	message := mail.NewSingleEmail(from, subject, to, "", buf.String())

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"to":      recipient,
			"subject": subject,
		}).WithError(err).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"to":          recipient,
		"subject":     subject,
		"status_code": response.StatusCode,
	}).Info("Email sent successfully")

	return nil
}
