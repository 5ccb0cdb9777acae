package pkg

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"time"

	"github.com/liverylibrary/backend/internal/config"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers an HTML message. gomail has no context support, ctx is only checked before dialing.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}
	return d.DialAndSend(msg)
}

func ResetCodeHTML(username, code string, ttl time.Duration) string {
	return fmt.Sprintf(
		`<p>Hi %s,</p><p>Your Livery Library password reset code is <b style="font-size:18px;">%s</b>.</p><p>It expires in %d minutes. If you did not ask for a reset you can ignore this email.</p>`,
		html.EscapeString(username), code, int(ttl.Minutes()),
	)
}
