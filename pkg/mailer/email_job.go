package mailer

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-auth/pkg/mailer/templates"
)

// EmailJob is one email to send. Either Subject/Text/HTML are set directly or
// Template names a template set rendered with Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome" or "status_changed"
	Data     map[string]any `json:"data,omitempty"`
}

var ErrNoRecipient = errors.New("email job has no recipient")

// Dispatch renders the job's template, if any, and hands it to s.
func Dispatch(ctx context.Context, s Sender, job EmailJob) error {
	if job.To == "" {
		return ErrNoRecipient
	}
	if job.Template != "" {
		subject, text, html, err := templates.Render(job.Template, job.Data)
		if err != nil {
			return err
		}
		job.Subject, job.Text, job.HTML = subject, text, html
	}
	return s.Send(ctx, job.To, job.Subject, job.Text, job.HTML)
}
