package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"github.com/Skotchmaster/shop_backend/internal/config"
	"github.com/Skotchmaster/shop_backend/internal/logging"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Receipt struct {
	MessageID string
}

type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}

type SMTPSender struct {
	client *gomail.Client
	from   string
}

func NewSMTPSender(cfg config.SMTP) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is empty")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.From}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	m, err := buildMessage(s.from, msg)
	if err != nil {
		return Receipt{}, err
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return Receipt{}, fmt.Errorf("smtp send: %w", err)
	}
	return Receipt{MessageID: messageID(m)}, nil
}

func buildMessage(from string, msg Message) (*gomail.Msg, error) {
	if msg.To == "" {
		return nil, errors.New("mail: empty recipient")
	}
	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("mail from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("mail to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetMessageID()
	m.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	return m, nil
}

func messageID(m *gomail.Msg) string {
	if ids := m.GetGenHeader(gomail.HeaderMessageID); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// LogSender writes messages to the request logger instead of delivering
// them. Used when no SMTP host is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	if msg.To == "" {
		return Receipt{}, errors.New("mail: empty recipient")
	}
	l := logging.FromContext(ctx)
	l.LogAttrs(ctx, slog.LevelInfo, "mail_not_sent",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return Receipt{}, nil
}
