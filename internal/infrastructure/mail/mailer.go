// Package mail envía los correos de invitación.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Booking-api/internal/application/usecase"
	"github.com/jhoicas/Booking-api/pkg/config"
	"github.com/jhoicas/Booking-api/pkg/logger"
)

var (
	_ usecase.Mailer = (*SMTPMailer)(nil)
	_ usecase.Mailer = (*LogMailer)(nil)
)

var invitationTemplate = template.Must(template.New("invitation").Parse(`<p>Hola,</p>
<p>{{if .InviterName}}{{.InviterName}} te ha invitado{{else}}Has sido invitado{{end}} a unirte como <strong>{{.Role}}</strong>.</p>
<p><a href="{{.Link}}">Completa tu registro</a></p>
<p>El enlace caduca el {{.ExpiresAt.Format "02/01/2006 15:04"}}.</p>`))

// SMTPMailer envía correos con gomail sobre SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer construye el mailer a partir de la configuración SMTP.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// SendInvitation compone y envía el correo de invitación.
func (m *SMTPMailer) SendInvitation(ctx context.Context, mail usecase.InvitationMail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := renderInvitation(mail)
	if err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", mail.To)
	msg.SetHeader("Subject", "Invitación para registrarte")
	msg.SetBody("text/html", body)
	msg.AddAlternative("text/plain", "Completa tu registro en: "+mail.Link)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: enviar invitación a %s: %w", mail.To, err)
	}
	return nil
}

// LogMailer no envía nada: deja el enlace en el log (desarrollo, SMTP sin configurar).
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de solo log.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// SendInvitation registra la invitación.
func (m *LogMailer) SendInvitation(_ context.Context, mail usecase.InvitationMail) error {
	m.log.Info().
		Str("to", mail.To).
		Str("role", mail.Role).
		Str("link", mail.Link).
		Msg("SMTP no configurado: invitación no enviada por correo")
	return nil
}

// New elige el mailer según la configuración: sin host SMTP → LogMailer.
func New(cfg config.SMTPConfig, log *logger.Logger) usecase.Mailer {
	if cfg.Host == "" {
		return NewLogMailer(log)
	}
	return NewSMTPMailer(cfg)
}

func renderInvitation(mail usecase.InvitationMail) (string, error) {
	var buf bytes.Buffer
	if err := invitationTemplate.Execute(&buf, mail); err != nil {
		return "", fmt.Errorf("mail: plantilla de invitación: %w", err)
	}
	return buf.String(), nil
}
