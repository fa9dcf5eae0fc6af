package service

import (
	"fmt"
	netmail "net/mail"
	"strings"

	"github.com/jewgo-app/jewgo-api/internal/config"

	"github.com/wneessen/go-mail"
)

// EmailService delivers transactional mail over SMTP.
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates the email service.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled reports whether SMTP delivery is configured.
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled &&
		strings.TrimSpace(s.cfg.Host) != "" && s.cfg.Port > 0 && strings.TrimSpace(s.cfg.From) != ""
}

// SendMagicLink delivers a single-use sign-in link.
func (s *EmailService) SendMagicLink(toEmail, link string, expireMinutes int) error {
	subject := "Your JewGo sign-in link"
	body := fmt.Sprintf(
		"<p>Click the link below to sign in to JewGo:</p>"+
			"<p><a href=\"%s\">%s</a></p>"+
			"<p>The link expires in %d minutes and can only be used once. "+
			"If you did not request it, you can safely ignore this email.</p>",
		link, link, expireMinutes,
	)
	return s.sendHTML(toEmail, subject, body)
}

func (s *EmailService) sendHTML(toEmail, subject, body string) error {
	if !s.Enabled() {
		return ErrMagicLinkSendFailed
	}
	if _, err := netmail.ParseAddress(toEmail); err != nil {
		return ErrEmailInvalid
	}

	msg := mail.NewMsg()
	from := strings.TrimSpace(s.cfg.From)
	if name := strings.TrimSpace(s.cfg.FromName); name != "" {
		if err := msg.FromFormat(name, from); err != nil {
			return err
		}
	} else {
		if err := msg.From(from); err != nil {
			return err
		}
	}
	if err := msg.To(toEmail); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}
	if strings.TrimSpace(s.cfg.Username) != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	switch {
	case s.cfg.UseSSL:
		opts = append(opts, mail.WithSSLPort(false))
	case s.cfg.UseTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(strings.TrimSpace(s.cfg.Host), opts...)
	if err != nil {
		return err
	}
	return client.DialAndSend(msg)
}
