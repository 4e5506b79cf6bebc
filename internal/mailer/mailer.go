// Package mailer is the outbound mail boundary. Every successful dispatch,
// regardless of transport, appends an EmailLog audit row.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/taskflow/taskflow/internal/models"
)

// Message is one outbound email.
type Message struct {
	To       string
	Subject  string
	BodyHTML string
	BodyText string
}

// Transport delivers a message over some channel (real provider or the
// local dev log).
type Transport interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Mailer dispatches messages through a transport and records the audit log.
type Mailer struct {
	transport Transport
	db        *gorm.DB
	logger    *slog.Logger
}

// New creates a Mailer around the given transport.
func New(transport Transport, db *gorm.DB, logger *slog.Logger) *Mailer {
	return &Mailer{transport: transport, db: db, logger: logger}
}

// Send dispatches the message and, on success, writes the EmailLog row.
// A failed audit write is returned as an error even though the mail already
// left, so the caller's retry policy surfaces the inconsistency in logs.
func (m *Mailer) Send(ctx context.Context, userID uint, msg Message) error {
	if err := m.transport.Send(ctx, msg); err != nil {
		return fmt.Errorf("transport %s failed: %w", m.transport.Name(), err)
	}

	log := models.EmailLog{
		UserID:   userID,
		ToEmail:  msg.To,
		Subject:  msg.Subject,
		BodyHTML: msg.BodyHTML,
		BodyText: msg.BodyText,
	}
	if err := m.db.WithContext(ctx).Create(&log).Error; err != nil {
		return fmt.Errorf("failed to write email log: %w", err)
	}

	m.logger.Info("Email dispatched",
		"transport", m.transport.Name(),
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
