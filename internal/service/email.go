package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/murmurlabs/murmur/internal/model"
	"github.com/resend/resend-go/v2"
)

// EmailService sends the weekly digest. In development it logs instead of
// sending so no API key is needed locally.
type EmailService struct {
	client    *resend.Client
	fromEmail string
	appName   string
	isDev     bool
}

func NewEmailService(apiKey, fromEmail, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		appName:   appName,
		isDev:     isDev,
	}
}

func (s *EmailService) SendWeeklyDigest(email string, summary *model.WeeklySummary) error {
	subject, body := weeklyDigestEmailTemplate(summary, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "weekly_digest", "to", email, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", "weekly_digest", "to", email)
	}
	return err
}
