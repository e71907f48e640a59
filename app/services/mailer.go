package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type EmailSender interface {
	SendHTMLEmail(to, subject, htmlBody string) error
}

type Mailer struct {
	config Config
	dialer *gomail.Dialer
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		config: cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		zap.S().Errorf("failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// Notifier is told about feedback that needs (re)moderation.
type Notifier interface {
	FeedbackChanged(ctx context.Context, feedback *models.Feedback, created bool)
}

type LogNotifier struct{}

func (LogNotifier) FeedbackChanged(_ context.Context, feedback *models.Feedback, created bool) {
	zap.S().Infow("feedback awaits moderation", "feedback_id", feedback.ID, "created", created)
}

// FeedbackNotifier mails the administrator from a bounded worker pool so the
// request does not wait on SMTP. Notifications arriving while every worker is
// busy are dropped.
type FeedbackNotifier struct {
	sender     EmailSender
	adminEmail string
	pool       *ants.Pool
}

func NewFeedbackNotifier(sender EmailSender, adminEmail string, workers int) (*FeedbackNotifier, error) {
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("failed to start notification pool: %w", err)
	}
	return &FeedbackNotifier{sender: sender, adminEmail: adminEmail, pool: pool}, nil
}

func (n *FeedbackNotifier) FeedbackChanged(_ context.Context, feedback *models.Feedback, created bool) {
	subject := fmt.Sprintf("Feedback #%d was updated and needs moderation", feedback.ID)
	if created {
		subject = fmt.Sprintf("New feedback #%d needs moderation", feedback.ID)
	}
	body := BuildFeedbackEmailBody(feedback)

	err := n.pool.Submit(func() {
		if err := n.sender.SendHTMLEmail(n.adminEmail, subject, body); err != nil {
			zap.S().Warnf("feedback %d notification not delivered: %v", feedback.ID, err)
		}
	})
	if err != nil {
		zap.S().Warnf("feedback %d notification dropped: %v", feedback.ID, err)
	}
}

func (n *FeedbackNotifier) Close() {
	if err := n.pool.ReleaseTimeout(10 * time.Second); err != nil {
		zap.S().Warnf("notification pool did not drain: %v", err)
	}
}

func BuildFeedbackEmailBody(feedback *models.Feedback) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body>
  <h2>Feedback #%d awaits moderation</h2>
  <p><strong>%s</strong></p>
  <p>%s</p>
  <p>Product #%d, author #%d.</p>
</body>
</html>`,
		feedback.ID,
		html.EscapeString(feedback.Title),
		html.EscapeString(feedback.Content),
		feedback.ProductID,
		feedback.AuthorID)
}
