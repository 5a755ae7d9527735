package services

import (
	"context"
	"errors"
	"log"

	"github.com/wneessen/go-mail"
)

type Message struct {
	To      []string
	Bcc     []string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer envoie un e-mail HTML.
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

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, in Message) error {
	if m.cfg.Host == "" {
		return errors.New("SMTP non configuré")
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return err
	}
	if err := msg.To(in.To...); err != nil {
		return err
	}
	if len(in.Bcc) > 0 {
		if err := msg.Bcc(in.Bcc...); err != nil {
			return err
		}
	}
	if in.ReplyTo != "" {
		if err := msg.ReplyTo(in.ReplyTo); err != nil {
			return err
		}
	}
	msg.Subject(in.Subject)
	msg.SetBodyString(mail.TypeTextHTML, in.HTML)

	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
			mail.WithTLSPolicy(mail.TLSMandatory),
		)
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", in.To)
	return client.DialAndSendWithContext(ctx, msg)
}
