package mailer

import (
	"context"
	"log/slog"
)

// DevTransport logs messages locally instead of sending them. The Mailer
// still writes the EmailLog row, so the audit trail is preserved without a
// live mail provider.
type DevTransport struct {
	Logger *slog.Logger
}

func (d *DevTransport) Name() string { return "dev-log" }

func (d *DevTransport) Send(_ context.Context, msg Message) error {
	d.Logger.Info("[DEV MAIL] Email logged (not sent)",
		"to", msg.To,
		"subject", msg.Subject,
		"body_text", msg.BodyText,
	)
	return nil
}
