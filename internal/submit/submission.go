// Package submit delivers host form submissions to the operator by email.
package submit

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/guestbites/guestbites/internal/model"
)

var (
	// ErrNotConfigured is returned when the email key or addresses are missing.
	ErrNotConfigured = eris.New("submit: email delivery not configured")
	// ErrMissingFields is returned when a guide submission lacks a ZIP, or
	// lacks both a property name and a host email.
	ErrMissingFields = eris.New("submit: missing required fields")
)

// Submission is a host form post. Fields are free text from the browser.
type Submission struct {
	HostName     string           `json:"hostName"`
	HostEmail    string           `json:"hostEmail"`
	PropertyName string           `json:"propertyName"`
	Zip          string           `json:"zip"`
	Picks        []model.HostPick `json:"picks"`
	GuestURL     string           `json:"guestUrl"`
	PageURL      string           `json:"pageUrl"`
	SubmittedAt  string           `json:"submittedAt"`
	Referrer     string           `json:"referrer"`
	UserAgent    string           `json:"userAgent"`
	Honeypot     string           `json:"honeypot"`

	// Raw is the decoded request body, echoed into the operator email.
	Raw map[string]any `json:"-"`
}

// Parse decodes a submission body. The body must be a JSON object; fields
// of the wrong type are coerced rather than rejected: scalars become their
// string form, and picks that are not a list are dropped. The decoded object
// is kept in Raw.
func Parse(body []byte) (*Submission, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, eris.Wrap(err, "submit: decode body")
	}
	if raw == nil {
		return nil, eris.New("submit: body is not a JSON object")
	}

	sub := &Submission{
		HostName:     stringField(raw, "hostName"),
		HostEmail:    stringField(raw, "hostEmail"),
		PropertyName: stringField(raw, "propertyName"),
		Zip:          stringField(raw, "zip"),
		Picks:        picksField(raw["picks"]),
		GuestURL:     stringField(raw, "guestUrl"),
		PageURL:      stringField(raw, "pageUrl"),
		SubmittedAt:  stringField(raw, "submittedAt"),
		Referrer:     stringField(raw, "referrer"),
		UserAgent:    stringField(raw, "userAgent"),
		Honeypot:     stringField(raw, "honeypot"),
		Raw:          raw,
	}
	sub.trim()
	return sub, nil
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func picksField(v any) []model.HostPick {
	items, ok := v.([]any)
	if !ok {
		return []model.HostPick{}
	}
	picks := make([]model.HostPick, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		picks = append(picks, model.HostPick{Name: stringField(m, "name"), Note: stringField(m, "note")})
	}
	return picks
}

func (s *Submission) trim() {
	for _, f := range []*string{
		&s.HostName, &s.HostEmail, &s.PropertyName, &s.Zip, &s.GuestURL,
		&s.PageURL, &s.SubmittedAt, &s.Referrer, &s.UserAgent, &s.Honeypot,
	} {
		*f = strings.TrimSpace(*f)
	}
}

// IsBot reports whether the hidden honeypot field was filled in.
func (s *Submission) IsBot() bool {
	return s.Honeypot != ""
}

// ValidateGuide checks the fields the guide builder form requires.
func (s *Submission) ValidateGuide() error {
	if s.Zip == "" || (s.PropertyName == "" && s.HostEmail == "") {
		return ErrMissingFields
	}
	return nil
}

// NamedPicks returns the picks that have a name.
func (s *Submission) NamedPicks() []model.HostPick {
	out := []model.HostPick{}
	for _, p := range s.Picks {
		if !p.Empty() {
			out = append(out, model.HostPick{Name: strings.TrimSpace(p.Name), Note: strings.TrimSpace(p.Note)})
		}
	}
	return out
}

// payloadJSON returns the body as indented JSON with the submission ID and
// host name added.
func (s *Submission) payloadJSON(id string) string {
	m := map[string]any{}
	if s.Raw != nil {
		for k, v := range s.Raw {
			m[k] = v
		}
	} else {
		b, _ := json.Marshal(s)
		_ = json.Unmarshal(b, &m)
	}
	m["submissionId"] = id
	m["hostName"] = s.HostName

	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// NewID returns a submission ID: the base-36 millisecond timestamp, a dash,
// and six random characters, upper-cased.
func NewID(now time.Time) string {
	return strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36) + "-" + randomSuffix())
}

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomSuffix() string {
	u := uuid.New()
	b := make([]byte, 6)
	for i := range b {
		b[i] = suffixAlphabet[int(u[i])%len(suffixAlphabet)]
	}
	return string(b)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
