// Package notify mails end-of-run reports. Delivery problems are the
// operator's to notice, never the pipeline's to die on.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/notify")

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type Options struct {
	Smtp       SmtpConfig `json:"smtp"`
	Recipients []string   `json:"recipients"`
}

type Service struct {
	config Options
}

func NewService(options Options) Service {
	return Service{config: options}
}

// Enabled reports whether the service has enough configuration to
// actually send anything.
func (s Service) Enabled() bool {
	return s.config.Smtp.Server != "" && len(s.config.Recipients) > 0
}

// RunSummary is what a pipeline run wants to tell the operator.
type RunSummary struct {
	Week         string
	Source       string
	Rows         int
	Skipped      bool
	Reason       string
	DatabasePath string
	BackupPath   string
}

func (r RunSummary) subject() string {
	if r.Skipped {
		return fmt.Sprintf("Chart run %s: skipped", r.Week)
	}
	return fmt.Sprintf("Chart run %s: %d rows ingested", r.Week, r.Rows)
}

func (r RunSummary) body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Week:     %s\n", r.Week)
	fmt.Fprintf(&b, "Source:   %s\n", r.Source)
	fmt.Fprintf(&b, "Rows:     %d\n", r.Rows)
	if r.Skipped {
		fmt.Fprintf(&b, "Skipped:  %s\n", r.Reason)
	}
	fmt.Fprintf(&b, "Database: %s\n", r.DatabasePath)
	if r.BackupPath != "" {
		fmt.Fprintf(&b, "Backup:   %s\n", r.BackupPath)
	}
	return b.String()
}

// SendRunSummary mails the summary to every configured recipient.
func (s Service) SendRunSummary(ctx context.Context, summary RunSummary) error {
	_, span := tracer.Start(ctx, "SendRunSummary")
	defer span.End()

	if !s.Enabled() {
		return fmt.Errorf("notify service is not configured")
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("YT Charts Archive <%s>", s.config.Smtp.EmailAddress)
	mail.To = s.config.Recipients
	mail.Subject = summary.subject()
	mail.Text = []byte(summary.body())

	addr := fmt.Sprintf("%s:%d", s.config.Smtp.Server, s.config.Smtp.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", s.config.Smtp.EmailAddress, s.config.Smtp.Password, s.config.Smtp.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}
