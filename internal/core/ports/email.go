package ports

import "context"

// MailSender delivers the verification code out of band. Delivery failures
// fail the issuing operation, so implementations should report them rather
// than swallow them.
type MailSender interface {
	SendVerificationCode(ctx context.Context, recipient, code string) error
}
