package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/WatchHubTV/WatchHub/internal/pkg/env"
)

// SMTPMailer sends emails via SMTP
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

// SendActivationEmail sends the account activation link to a new user.
func SendActivationEmail(to, name, token string) error {
	appURL := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080")
	link := fmt.Sprintf("%s/activate?token=%s", appURL, token)

	subject := "Activate your WatchHub account"
	body := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>welcome to WatchHub. Click the link below to activate your account:</p>"+
			"<p><a href=\"%s\">%s</a></p>"+
			"<p>If you did not create this account you can ignore this email.</p>",
		name, link, link,
	)

	return SendMail(to, subject, body)
}

// SendPasswordResetEmail mails the reset link. The token behind the link
// expires after one hour.
func SendPasswordResetEmail(to, name, token string) error {
	appURL := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080")
	link := fmt.Sprintf("%s/reset-password?token=%s", appURL, token)

	subject := "Reset your WatchHub password"
	body := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>we received a request to reset your password. Click the link below to choose a new one:</p>"+
			"<p><a href=\"%s\">%s</a></p>"+
			"<p>The link expires in one hour. If you did not request this you can ignore this email.</p>",
		name, link, link,
	)

	return SendMail(to, subject, body)
}
