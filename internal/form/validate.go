// internal/form/validate.go
//
// Server-side checks for posted site forms.
//
// Context
//   The renderer outputs a CSRF token and a render timestamp.  Validate
//   verifies both before looking at any field, then enforces required,
//   maxlength, pattern, and type rules from the Def.  Clean values are
//   trimmed strings; the gate service applies its own business rules on
//   top and decides what the visitor is told.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Form-level failure messages.
const (
	MsgBadToken   = "Security token invalid.  Please refresh and try again."
	MsgTooFast    = "Form submitted too quickly.  Please try again."
	MsgStale      = "Form expired.  Please reload and submit again."
	MsgBadStamp   = "Please reload the page and try again."
	MsgUnknown    = "Unknown form."
	maxFormWindow = 30 * time.Minute
)

// ErrorField is one validation failure.  Name is empty for form-level
// problems such as a bad token.
type ErrorField struct {
	Name    string
	Message string
}

// ValidationError wraps the failures so handlers can tell user mistakes
// from system errors with errors.As.
type ValidationError struct{ Fields []ErrorField }

func (ve *ValidationError) Error() string { return "form validation failed" }

// First returns the first message, for single-line inline errors.
func (ve *ValidationError) First() string {
	if len(ve.Fields) == 0 {
		return ""
	}
	return ve.Fields[0].Message
}

// IsValidationError reports whether err came from Validate.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks posted against form id and returns trimmed values for
// every field that was present.  The error is a *ValidationError when the
// visitor can fix the problem.
func (s *Set) Validate(id string, posted url.Values) (map[string]string, error) {
	d, ok := s.Def(id)
	if !ok {
		return nil, &ValidationError{Fields: []ErrorField{{Message: MsgUnknown}}}
	}

	if tok := posted.Get("csrf_token"); tok == "" || !s.guard.Verify(tok) {
		return nil, &ValidationError{Fields: []ErrorField{{Message: MsgBadToken}}}
	}
	if msg := s.checkTiming(posted.Get("render_ts"), d.MinSeconds); msg != "" {
		return nil, &ValidationError{Fields: []ErrorField{{Message: msg}}}
	}

	var errs []ErrorField
	clean := make(map[string]string, len(d.Fields))
	for i := range d.Fields {
		f := &d.Fields[i]
		val := strings.TrimSpace(posted.Get(f.Name))
		if val == "" {
			if f.Required {
				errs = append(errs, ErrorField{f.Name, requiredMsg(f)})
			}
			continue
		}
		if msg := checkField(f, val); msg != "" {
			errs = append(errs, ErrorField{f.Name, msg})
			continue
		}
		clean[f.Name] = val
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	return clean, nil
}

// maxBody caps form posts; the largest field is a 5000-character message.
const maxBody = 64 << 10

// Parse reads a urlencoded POST body of at most maxBody bytes and runs
// Validate on it.
func (s *Set) Parse(id string, w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("form: read body: %w", err)
	}
	return s.Validate(id, r.PostForm)
}

// checkTiming rejects submissions posted faster than a human could type
// or long after the page was rendered.
func (s *Set) checkTiming(raw string, minSeconds int) string {
	if raw == "" {
		return MsgBadStamp
	}
	us, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return MsgBadStamp
	}
	delta := s.guard.now().Sub(time.UnixMicro(us))
	switch {
	case delta < time.Duration(minSeconds)*time.Second:
		return MsgTooFast
	case delta > maxFormWindow:
		return MsgStale
	}
	return ""
}

func checkField(f *FieldDef, val string) string {
	if f.MaxLength > 0 && utf8.RuneCountInString(val) > f.MaxLength {
		return fmt.Sprintf("Must be at most %d characters.", f.MaxLength)
	}
	if f.re != nil && !f.re.MatchString(val) {
		return invalidMsg(f)
	}
	if f.Type == "email" {
		if _, err := mail.ParseAddress(val); err != nil {
			return invalidMsg(f)
		}
	}
	return ""
}

func requiredMsg(f *FieldDef) string {
	if f.ErrorMsg != "" {
		return f.ErrorMsg
	}
	return "This field is required."
}

func invalidMsg(f *FieldDef) string {
	if f.ErrorMsg != "" {
		return f.ErrorMsg
	}
	return "Invalid input."
}
