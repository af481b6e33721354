// Package notify delivers alert notifications over email.
package notify

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
	"gopkg.in/gomail.v2"

	"github.com/bobmcallan/revpulse/internal/common"
	"github.com/bobmcallan/revpulse/internal/interfaces"
	"github.com/bobmcallan/revpulse/internal/models"
)

// defaultRatePerMinute caps outbound email volume when not configured.
const defaultRatePerMinute = 10

// EmailNotifier implements interfaces.Notifier over SMTP.
type EmailNotifier struct {
	config  common.NotifyConfig
	limiter *rate.Limiter
	logger  *common.Logger

	// send is swapped in tests to avoid a live SMTP dialer.
	send func(m *gomail.Message) error
}

// NewEmailNotifier creates an SMTP-backed notifier with a per-minute rate cap.
func NewEmailNotifier(logger *common.Logger, config common.NotifyConfig) *EmailNotifier {
	perMinute := config.RatePerMinute
	if perMinute <= 0 {
		perMinute = defaultRatePerMinute
	}
	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.Username, config.Password)
	return &EmailNotifier{
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		logger:  logger,
		send: func(m *gomail.Message) error {
			return dialer.DialAndSend(m)
		},
	}
}

// NotifyAlert sends a single alert email to the configured recipients.
func (n *EmailNotifier) NotifyAlert(ctx context.Context, alert *models.AnalysisAlert) error {
	if len(n.config.Recipients) == 0 {
		return fmt.Errorf("no notification recipients configured")
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait aborted: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.config.From)
	m.SetHeader("To", n.config.Recipients...)
	m.SetHeader("Subject", fmt.Sprintf("[%s] %s: %s", strings.ToUpper(alert.Severity), alert.BusinessName, alert.Title))
	m.SetBody("text/plain", buildAlertText(alert))

	if err := n.send(m); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	n.logger.Info().
		Str("alert_id", alert.ID).
		Str("business", alert.BusinessName).
		Str("severity", alert.Severity).
		Msg("Alert email sent")
	return nil
}

func buildAlertText(alert *models.AnalysisAlert) string {
	var text strings.Builder
	text.WriteString(fmt.Sprintf("%s\n", alert.Title))
	text.WriteString(strings.Repeat("=", len(alert.Title)) + "\n\n")
	text.WriteString(fmt.Sprintf("Business:  %s\n", alert.BusinessName))
	text.WriteString(fmt.Sprintf("Type:      %s\n", alert.Type))
	text.WriteString(fmt.Sprintf("Severity:  %s\n", alert.Severity))
	text.WriteString(fmt.Sprintf("Value:     %.2f (threshold %.2f)\n", alert.Value, alert.Threshold))
	text.WriteString(fmt.Sprintf("Triggered: %s\n\n", alert.TriggeredAt.Format("2006-01-02 15:04:05 UTC")))
	text.WriteString(alert.Message + "\n")
	return text.String()
}

// NoopNotifier discards notifications. Used when email delivery is disabled.
type NoopNotifier struct{}

func (NoopNotifier) NotifyAlert(_ context.Context, _ *models.AnalysisAlert) error {
	return nil
}

var (
	_ interfaces.Notifier = (*EmailNotifier)(nil)
	_ interfaces.Notifier = NoopNotifier{}
)
