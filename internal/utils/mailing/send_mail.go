package mailing

import (
	"Snack-Tracker/internal/utils"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

var ErrMailNotConfigured = errors.New("smtp not configured")

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

// Mailer sends the account mails. The coordinator only needs Welcome.
type Mailer interface {
	Welcome(toEmail string) error
}

type smtpMailer struct {
	cfg MailConfig
}

func NewMailer(cfg MailConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Welcome(toEmail string) error {
	return SendMail(m.cfg, toEmail, "Welcome to Snack Tracker", WelcomeBody(m.cfg.AppURL))
}

func WelcomeBody(appURL string) string {
	body := "<p>Your account is ready. Snap a snack to see its calories and keep a daily log.</p>"
	if appURL != "" {
		body += fmt.Sprintf(`<p><a href="%s">Open Snack Tracker</a></p>`, appURL)
	}
	return body
}

func SendMail(emailConfig MailConfig, toEmail string, subject string, body string) error {
	if emailConfig.SMTPHost == "" || emailConfig.SMTPEmail == "" {
		return ErrMailNotConfigured
	}

	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", emailConfig.SMTPEmail, emailConfig.SMTPSender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(emailConfig.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		emailConfig.SMTPHost,
		port,
		emailConfig.SMTPEmail,
		emailConfig.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}
