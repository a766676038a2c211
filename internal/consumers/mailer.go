package consumers

import (
	"context"
	"log/slog"
)

// Email - письмо, отправляемое по событию бронирования
type Email struct {
	To      string
	Name    string
	Subject string
	Body    string
}

// Mailer отправляет письма пользователям
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// LogMailer пишет письма в лог вместо реальной отправки
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, email Email) error {
	m.log.InfoContext(ctx, "Email sent",
		"to", email.To,
		"subject", email.Subject,
		"body", email.Body)
	return nil
}
