package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"net/smtp"
	"net/url"
	"strings"

	"devconnect-api/internal/config"
)

// Mailer delivers account emails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, token string) error
}

type EmailService struct {
	cfg  *config.Config
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg, send: smtp.SendMail}
}

func (es *EmailService) SendPasswordReset(_ context.Context, to, token string) error {
	if es.cfg.SMTPHost == "" {
		log.Printf("SMTP_HOST not set; password reset email for %s not sent", to)
		return nil
	}

	link := es.cfg.PasswordResetURL + "?token=" + url.QueryEscape(token)
	body := fmt.Sprintf(`
	<html>
	<body>
		<h2>Reset your DevConnect password</h2>
		<p>Someone asked to reset the password for this account. Follow the link below to choose a new one:</p>
		<p><a href="%s">Reset password</a></p>
		<p>This link expires in %s.</p>
		<p>If you didn't request this, please ignore this email.</p>
	</body>
	</html>
	`, html.EscapeString(link), es.cfg.PasswordResetTTL)

	var auth smtp.Auth
	if es.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", es.cfg.SMTPUsername, es.cfg.SMTPPassword, es.cfg.SMTPHost)
	}

	return es.send(
		es.cfg.SMTPHost+":"+es.cfg.SMTPPort,
		auth,
		es.cfg.EmailFrom,
		[]string{to},
		buildMessage(es.cfg.EmailFrom, to, "Reset your DevConnect password", body),
	)
}

func buildMessage(from, to, subject, body string) []byte {
	headers := [][2]string{
		{"From", from},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", `text/html; charset="utf-8"`},
	}

	var message strings.Builder
	for _, h := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", h[0], h[1]))
	}
	message.WriteString("\r\n" + body)
	return []byte(message.String())
}
