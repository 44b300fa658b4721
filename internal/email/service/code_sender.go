package service

import (
	"context"
	"fmt"
	"strings"

	authbiz "github.com/lk2023060901/workspace-backend/internal/auth/biz"
	"github.com/lk2023060901/workspace-backend/internal/email/types"
)

const codeSubject = "Your Accops Workspace verification code"

// CodeSender mails email-method codes and hands every other method to
// fallback.
type CodeSender struct {
	email    *EmailService
	domain   string
	fallback authbiz.CodeSender
}

// NewCodeSender mails email codes and hands every other method to fallback.
func NewCodeSender(email *EmailService, fallback authbiz.CodeSender) *CodeSender {
	return &CodeSender{email: email, domain: email.config.RecipientDomain, fallback: fallback}
}

// Send implements authbiz.CodeSender.
func (s *CodeSender) Send(ctx context.Context, d authbiz.Delivery) error {
	if d.Method != authbiz.MethodEmail {
		return s.fallback.Send(ctx, d)
	}

	to, err := recipient(d.Username, s.domain)
	if err != nil {
		return err
	}
	_, err = s.email.SendEmail(ctx, codeEmail(to, d.Code))
	return err
}

func codeEmail(to, code string) *types.Email {
	return &types.Email{
		To:      []string{to},
		Subject: codeSubject,
		Body: fmt.Sprintf("Your verification code is %s.\r\n\r\n"+
			"It expires with your sign-in attempt. If you did not try to sign in, ignore this message.\r\n", code),
	}
}

// recipient uses username as the address when it already is one.
func recipient(username, domain string) (string, error) {
	if strings.Contains(username, "@") {
		return username, nil
	}
	if domain == "" {
		return "", fmt.Errorf("no email address for user %q: recipient_domain is not set", username)
	}
	return username + "@" + domain, nil
}
