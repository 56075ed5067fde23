package submit

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/guestbites/guestbites/pkg/resend"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/*.html"))

// Receipt describes an accepted submission.
type Receipt struct {
	SubmissionID string
	// MessageID is the email provider's ID; empty when nothing was sent.
	MessageID string
	// Discarded is set for honeypot submissions, which are accepted
	// without sending.
	Discarded bool
}

// DeliveryError is returned when the email provider rejects the message.
type DeliveryError struct {
	SubmissionID string
	Err          error
}

func (e *DeliveryError) Error() string {
	return "submit: delivery failed for " + e.SubmissionID + ": " + e.Err.Error()
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Service renders submissions and sends them to the operator inbox.
type Service struct {
	client  resend.Client
	from    string
	to      []string
	nowFunc func() time.Time
}

// NewService creates a Service. A nil client or empty from/to leaves the
// service unconfigured; Submit calls then fail with ErrNotConfigured.
func NewService(client resend.Client, from string, to []string) *Service {
	return &Service{client: client, from: from, to: to, nowFunc: time.Now}
}

// Configured reports whether emails can be sent.
func (s *Service) Configured() bool {
	return s.client != nil && s.from != "" && len(s.to) > 0
}

// SubmitHost sends a host sign-up. Any payload is accepted.
func (s *Service) SubmitHost(ctx context.Context, sub *Submission) (*Receipt, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	id := NewID(s.nowFunc())

	html, err := render("host.html", map[string]any{
		"ID":           id,
		"HostName":     sub.HostName,
		"HostEmail":    sub.HostEmail,
		"PropertyName": sub.PropertyName,
		"Zip":          sub.Zip,
		"GuestURL":     sub.GuestURL,
		"Payload":      sub.payloadJSON(id),
	})
	if err != nil {
		return nil, err
	}

	subject := "GuestBites Host Submission (" + id + ") — " +
		firstNonEmpty(sub.HostName, sub.HostEmail, "unknown-host") + " — " +
		firstNonEmpty(sub.Zip, "no-zip")

	return s.send(ctx, id, sub, subject, html)
}

// SubmitGuide sends a guide builder submission. Honeypot submissions are
// discarded without error.
func (s *Service) SubmitGuide(ctx context.Context, sub *Submission) (*Receipt, error) {
	id := NewID(s.nowFunc())
	if sub.IsBot() {
		zap.L().Info("submit: honeypot triggered, discarding", zap.String("submission_id", id))
		return &Receipt{SubmissionID: id, Discarded: true}, nil
	}
	if err := sub.ValidateGuide(); err != nil {
		return nil, err
	}
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	submittedAt := sub.SubmittedAt
	if submittedAt == "" {
		submittedAt = s.nowFunc().UTC().Format(time.RFC3339)
	}
	html, err := render("guide.html", map[string]any{
		"ID":           id,
		"SubmittedAt":  submittedAt,
		"HostName":     sub.HostName,
		"HostEmail":    sub.HostEmail,
		"PropertyName": sub.PropertyName,
		"Zip":          sub.Zip,
		"PageURL":      sub.PageURL,
		"Picks":        sub.NamedPicks(),
		"Referrer":     sub.Referrer,
		"UserAgent":    sub.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	subject := "GuestBites Host Submission (" + id + ") — " + firstNonEmpty(sub.PropertyName, sub.Zip)
	return s.send(ctx, id, sub, subject, html)
}

func (s *Service) send(ctx context.Context, id string, sub *Submission, subject, html string) (*Receipt, error) {
	resp, err := s.client.Send(ctx, resend.Email{
		From:    s.from,
		To:      s.to,
		Subject: subject,
		HTML:    html,
		ReplyTo: sub.HostEmail,
	})
	if err != nil {
		zap.L().Error("submit: email failed", zap.String("submission_id", id), zap.Error(err))
		return nil, &DeliveryError{SubmissionID: id, Err: err}
	}

	zap.L().Info("submit: email sent",
		zap.String("submission_id", id),
		zap.String("message_id", resp.ID),
		zap.String("zip", sub.Zip),
	)
	return &Receipt{SubmissionID: id, MessageID: resp.ID}, nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", eris.Wrapf(err, "submit: render %s", name)
	}
	return buf.String(), nil
}
