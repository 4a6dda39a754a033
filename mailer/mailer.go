package mailer

import (
	"context"
	"time"
)

// Attachment is an in-memory file to be mailed.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SendResult reports a completed delivery.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers report emails with attachments.
type Sender interface {
	SendWithAttachment(ctx context.Context, to, subject, body string, att Attachment) (SendResult, error)
}
