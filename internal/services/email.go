package services

import (
	"fmt"
	"html"
	"net/smtp"

	"github.com/dimitrije/teamup-api/internal/config"
)

type EmailService struct {
	cfg  config.SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg, send: smtp.SendMail}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

// Send is a no-op when SMTP is not configured or there is no recipient.
func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() || to == "" {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, body)

	return s.send(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}

func (s *EmailService) SendJoinRequestReceived(to, requesterName, projectTitle, link string) error {
	subject := fmt.Sprintf("New request to join %s", projectTitle)
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>New join request</h2>
			<p><strong>%s</strong> would like to join your project <strong>%s</strong>.</p>
			<p><a href="%s">Review the request</a></p>
		</body>
		</html>
	`, html.EscapeString(requesterName), html.EscapeString(projectTitle), html.EscapeString(link))

	return s.Send(to, subject, body)
}

func (s *EmailService) SendJoinRequestReviewed(to, projectTitle, status, link string) error {
	subject := fmt.Sprintf("Your request to join %s was %s", projectTitle, status)
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Join request %s</h2>
			<p>Your request to join <strong>%s</strong> was <strong>%s</strong>.</p>
			<p><a href="%s">Open the project</a></p>
		</body>
		</html>
	`, html.EscapeString(status), html.EscapeString(projectTitle), html.EscapeString(status), html.EscapeString(link))

	return s.Send(to, subject, body)
}
