package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lk2023060901/workspace-backend/internal/email/types"
	"github.com/wneessen/go-mail"
)

// EmailService sends mail over SMTP.
type EmailService struct {
	config *types.EmailConfig
}

// NewEmailService validates cfg and fills in defaults.
func NewEmailService(cfg *types.EmailConfig) (*EmailService, error) {
	if cfg == nil {
		return nil, errors.New("email config is required")
	}
	if cfg.SMTPHost == "" || cfg.FromAddr == "" {
		return nil, errors.New("email smtp_host and from_addr are required")
	}
	if _, err := tlsPolicy(cfg.TLSPolicy); err != nil {
		return nil, err
	}

	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = 2 * time.Second
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = 30 * time.Second
	}

	return &EmailService{config: cfg}, nil
}

// SendEmail sends email, retrying transport failures up to MaxRetries.
func (s *EmailService) SendEmail(ctx context.Context, email *types.Email) (*types.EmailStatus, error) {
	if email == nil {
		return nil, errors.New("email is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}

	client, err := s.createClient()
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}
	defer client.Close()

	msg, err := s.buildMessage(email)
	if err != nil {
		return nil, fmt.Errorf("build message: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= s.config.MaxRetries; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, s.config.SendTimeout)
		err := client.DialAndSendWithContext(sendCtx, msg)
		cancel()

		if err == nil {
			return &types.EmailStatus{
				MessageID: firstOrEmpty(msg.GetGenHeader(mail.HeaderMessageID)),
				SentAt:    time.Now(),
			}, nil
		}

		lastErr = err
		if attempt < s.config.MaxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.config.RetryInterval):
			}
		}
	}

	return nil, fmt.Errorf("failed to send email after %d attempts: %w", s.config.MaxRetries, lastErr)
}

func (s *EmailService) createClient() (*mail.Client, error) {
	policy, _ := tlsPolicy(s.config.TLSPolicy)
	opts := []mail.Option{
		mail.WithPort(s.config.SMTPPort),
		mail.WithTimeout(s.config.ConnectTimeout),
		mail.WithTLSPolicy(policy),
		mail.WithSMTPAuth(mail.SMTPAuthNoAuth),
	}
	if s.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.config.Username),
			mail.WithPassword(s.config.Password),
		)
	}
	return mail.NewClient(s.config.SMTPHost, opts...)
}

func (s *EmailService) buildMessage(email *types.Email) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(formatAddress(s.config.FromAddr, s.config.FromName)); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(email.To...); err != nil {
		return nil, fmt.Errorf("set to: %w", err)
	}

	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextPlain, email.Body)

	for key, value := range email.Headers {
		msg.SetGenHeader(mail.Header(key), value)
	}
	msg.SetGenHeader(mail.HeaderXMailer, "Workspace-Backend")
	msg.SetDate()
	msg.SetMessageID()

	return msg, nil
}

func validateEmail(email *types.Email) error {
	if len(email.To) == 0 {
		return errors.New("at least one recipient is required")
	}
	if email.Subject == "" {
		return errors.New("subject is required")
	}
	if email.Body == "" {
		return errors.New("body is required")
	}
	return nil
}

func tlsPolicy(name string) (mail.TLSPolicy, error) {
	switch name {
	case "", "mandatory":
		return mail.TLSMandatory, nil
	case "opportunistic":
		return mail.TLSOpportunistic, nil
	case "none":
		return mail.NoTLS, nil
	default:
		return mail.TLSMandatory, fmt.Errorf("unknown tls_policy %q", name)
	}
}

func formatAddress(addr, name string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%q <%s>", name, addr)
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
