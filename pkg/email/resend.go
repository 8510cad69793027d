package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

type Config struct {
	APIKey      string
	FromAddress string
	FromName    string
	FrontendURL string
}

// Mailer servislerin kullandığı bildirim arayüzü
type Mailer interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendPassActivated(ctx context.Context, to, name, productTitle string, credits int) error
	SendBookingConfirmed(ctx context.Context, to, name, sessionTitle string, scheduledAt time.Time, meetingLink string) error
}

type EmailService struct {
	client    *resend.Client
	cfg       Config
	templates *template.Template
	logger    *zap.Logger
}

// NewMailer API anahtarı yoksa hiçbir şey göndermeyen bir Mailer döner
func NewMailer(cfg Config, logger *zap.Logger) (Mailer, error) {
	if cfg.APIKey == "" || cfg.FromAddress == "" {
		logger.Warn("email disabled: RESEND_API_KEY or EMAIL_FROM_ADDRESS missing")
		return NoopMailer{}, nil
	}
	return NewEmailService(cfg, logger)
}

func NewEmailService(cfg Config, logger *zap.Logger) (*EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &EmailService{
		client:    resend.NewClient(cfg.APIKey),
		cfg:       cfg,
		templates: tmpl,
		logger:    logger.Named("email"),
	}, nil
}

func (s *EmailService) SendWelcome(ctx context.Context, to, name string) error {
	return s.send(to, "Welcome to Meritrix!", "welcome.html", map[string]any{
		"Name":      name,
		"Dashboard": s.cfg.FrontendURL + "/dashboard",
	})
}

func (s *EmailService) SendPassActivated(ctx context.Context, to, name, productTitle string, credits int) error {
	return s.send(to, productTitle+" is active", "pass-activated.html", map[string]any{
		"Name":    name,
		"Product": productTitle,
		"Credits": credits,
		"BookURL": s.cfg.FrontendURL + "/vedic-maths",
	})
}

func (s *EmailService) SendBookingConfirmed(ctx context.Context, to, name, sessionTitle string, scheduledAt time.Time, meetingLink string) error {
	return s.send(to, "Session booked: "+sessionTitle, "booking-confirmed.html", map[string]any{
		"Name":        name,
		"Session":     sessionTitle,
		"ScheduledAt": scheduledAt.Format("Mon, 02 Jan 2006 15:04 MST"),
		"MeetingLink": meetingLink,
	})
}

func (s *EmailService) send(to, subject, templateName string, data map[string]any) error {
	data["Year"] = time.Now().Year()

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", templateName, err)
	}

	params := &resend.SendEmailRequest{
		From:    s.cfg.FromName + " <" + s.cfg.FromAddress + ">",
		To:      []string{to},
		Subject: subject,
		Html:    buf.String(),
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Error("failed to send email", zap.String("template", templateName), zap.String("to", to), zap.Error(err))
		return err
	}

	s.logger.Info("email sent", zap.String("template", templateName), zap.String("to", to), zap.String("id", resp.Id))
	return nil
}

type NoopMailer struct{}

func (NoopMailer) SendWelcome(context.Context, string, string) error { return nil }
func (NoopMailer) SendPassActivated(context.Context, string, string, string, int) error {
	return nil
}
func (NoopMailer) SendBookingConfirmed(context.Context, string, string, string, time.Time, string) error {
	return nil
}
