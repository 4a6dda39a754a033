package mailer

import (
	"context"
	"fmt"
	"io"
	"time"

	"catalog-service/config"

	gomail "gopkg.in/gomail.v2"
)

// SMTPSender implements Sender over SMTP.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender builds an SMTPSender from config, failing on incomplete
// settings.
func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP_HOST not set")
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("SMTP_USER not set")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("SMTP_PASS not set")
	}

	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}, nil
}

func (s *SMTPSender) SendWithAttachment(ctx context.Context, to, subject, body string, att Attachment) (SendResult, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	m.Attach(att.Filename,
		gomail.SetHeader(map[string][]string{"Content-Type": {att.ContentType}}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(att.Data)
			return err
		}),
	)

	// gomail has no context support; honor cancellation before dialing.
	select {
	case <-ctx.Done():
		return SendResult{}, ctx.Err()
	default:
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return SendResult{}, fmt.Errorf("smtp send failed: %w", err)
	}

	return SendResult{
		MessageID: fmt.Sprintf("smtp-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}
