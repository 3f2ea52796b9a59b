package delivery

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/domodwyer/mailyak/v3"
)

type Attachment struct {
	Name string
	Data []byte
}

type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Mailer hands a message to a mail transport.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends through a single SMTP relay. Authentication is skipped
// when no username is configured.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPMailer creates a mailer for the configured relay
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	m := &SMTPMailer{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from: cfg.From,
	}
	if cfg.Username != "" {
		m.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return m
}

func (m *SMTPMailer) build(msg Message) *mailyak.MailYak {
	mail := mailyak.New(m.addr, m.auth)
	mail.To(msg.To)
	mail.From(m.from)
	mail.Subject(msg.Subject)
	mail.HTML().Set(msg.HTML)
	for _, a := range msg.Attachments {
		mail.Attach(a.Name, bytes.NewReader(a.Data))
	}
	return mail
}

// Send delivers msg; it does not retry
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.build(msg).Send(); err != nil {
		return fmt.Errorf("smtp %s: %w", m.addr, err)
	}
	return nil
}
