package gate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/grant"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/message"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/metrics"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/requestinfo"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/resolve"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

// Result is the JSON reply of every submission endpoint.  Site is set on
// success so the caller can issue the grant cookie.
type Result struct {
	Success bool       `json:"success"`
	Error   string     `json:"error,omitempty"`
	Site    *site.Site `json:"-"`
}

// PasswordSubmission is the password gate form.
type PasswordSubmission struct {
	Kind     site.Kind `json:"-"`
	Slug     string    `json:"slug" validate:"required"`
	Password string    `json:"password"`
}

// LeadSubmission is the lead-capture gate form.  Name is optional.
type LeadSubmission struct {
	Kind  site.Kind `json:"-"`
	Slug  string    `json:"slug" validate:"required"`
	Name  string    `json:"name" validate:"max=255"`
	Email string    `json:"email" validate:"required,max=254,leademail"`
	Phone string    `json:"phone" validate:"max=64"`
}

// ContactSubmission comes from a contact or inquiry_form section.
type ContactSubmission struct {
	Kind      site.Kind `json:"-"`
	Slug      string    `json:"slug" validate:"required"`
	SectionID *uint64   `json:"sectionId"`
	Source    string    `json:"source" validate:"omitempty,oneof=contact inquiry"`
	Name      string    `json:"name" validate:"required,max=255"`
	Email     string    `json:"email" validate:"required,max=254,leademail"`
	Phone     string    `json:"phone" validate:"max=64"`
	Message   string    `json:"message" validate:"max=5000"`
}

// Sites resolves the site a submission targets.  *resolve.Resolver
// satisfies it.
type Sites interface {
	BySlug(ctx context.Context, kind site.Kind, slug string) (*site.Site, error)
}

// LeadStore records leads.  *site.Store satisfies it.
type LeadStore interface {
	InsertLead(ctx context.Context, l *site.Lead) error
}

// BusinessSource supplies notification recipients.
type BusinessSource interface {
	Business(ctx context.Context, s *site.Site) (*site.Business, error)
}

// SectionSource lists a site's sections.  Contact submissions use it to
// check the section they name.
type SectionSource interface {
	Sections(ctx context.Context, siteID uint64) ([]site.Section, error)
}

// Deps wires a Service.  Business, Sections, and Notifier are optional.
// Without Sections no section id is stored on contact leads.
type Deps struct {
	Sites    Sites
	Leads    LeadStore
	Business BusinessSource
	Sections SectionSource
	Notifier message.Notifier
	Logger   *zap.Logger
}

// Service verifies gate submissions and records leads.
type Service struct {
	sites    Sites
	leads    LeadStore
	business BusinessSource
	sections SectionSource
	notify   message.Notifier
	log      *zap.Logger
	validate *validator.Validate
	seq      Sequencer
	now      func() time.Time
	newID    func() string
}

// leadEmail is deliberately loose: something@something.tld, no spaces.
var leadEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NewService returns a Service over d.
func NewService(d Deps) *Service {
	v := validator.New()
	_ = v.RegisterValidation("leademail", func(fl validator.FieldLevel) bool {
		return leadEmail.MatchString(fl.Field().String())
	})
	if d.Logger == nil {
		d.Logger = zap.L()
	}
	if d.Notifier == nil {
		d.Notifier = message.Log{L: d.Logger}
	}
	return &Service{
		sites:    d.Sites,
		leads:    d.Leads,
		business: d.Business,
		sections: d.Sections,
		notify:   d.Notifier,
		log:      d.Logger,
		validate: v,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

/*──────────────────────────── password gate ────────────────────────────────*/

// SubmitPassword checks sub against the site's bcrypt hash.  A wrong
// password, a site without a hash, and an unprotected site all yield the
// same MsgIncorrectPassword.  Repeating a correct submission succeeds
// again with the same effect.
func (s *Service) SubmitPassword(ctx context.Context, sub PasswordSubmission) (res Result, err error) {
	defer func() { observe("password", "granted", err) }()

	st, res, err := s.target(ctx, sub.Kind, sub.Slug, MsgIncorrectPassword)
	if st == nil {
		return res, err
	}

	if !st.IsPasswordProtected || st.PasswordHash == "" {
		return reject(MsgIncorrectPassword)
	}
	err = bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(sub.Password))
	switch {
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return reject(MsgIncorrectPassword)
	case err != nil:
		// malformed stored hash
		s.log.Error("password gate: verify hash",
			zap.Uint64("site_id", st.ID), zap.Error(err))
		return failed(fmt.Errorf("verify hash for site %d: %w", st.ID, err))
	}
	return Result{Success: true, Site: st}, nil
}

/*──────────────────────────── lead gate ────────────────────────────────────*/

// SubmitLead validates sub, records a Lead, and reports success so the
// caller can issue the lead grant.  A visitor who already holds the lead
// grant gets a success without a second Lead row.  On a password
// protected site the access grant must be held first.
func (s *Service) SubmitLead(ctx context.Context, sub LeadSubmission, grants grant.Checker) (res Result, err error) {
	defer func() { observe("lead", "granted", err) }()

	sub.Name, sub.Email, sub.Phone = strings.TrimSpace(sub.Name), strings.TrimSpace(sub.Email), strings.TrimSpace(sub.Phone)
	if res, err = s.check(&sub); err != nil {
		return res, err
	}

	st, res, err := s.target(ctx, sub.Kind, sub.Slug, MsgNotAvailable)
	if st == nil {
		return res, err
	}
	switch s.seq.Evaluate(st, grants, s.now()) {
	case StagePassword:
		return reject(MsgPasswordFirst)
	case StageOpen:
		if st.RequireLeadCapture {
			return Result{Success: true, Site: st}, nil
		}
	}

	lead := s.newLead(ctx, st, site.LeadSourceGate)
	lead.Name, lead.Email, lead.Phone = sub.Name, sub.Email, sub.Phone
	if err := s.record(ctx, st, lead); err != nil {
		return failed(err)
	}
	return Result{Success: true, Site: st}, nil
}

/*──────────────────────────── contact / inquiry ────────────────────────────*/

// SubmitContact records a contact or inquiry section submission as a
// Lead.  It never produces a grant.  The forms live in page content, so
// every gate of the site must be cleared.  A section id that does not
// belong to the site is dropped.
func (s *Service) SubmitContact(ctx context.Context, sub ContactSubmission, grants grant.Checker) (res Result, err error) {
	defer func() { observe("contact", "accepted", err) }()

	sub.Name, sub.Email = strings.TrimSpace(sub.Name), strings.TrimSpace(sub.Email)
	sub.Phone, sub.Message = strings.TrimSpace(sub.Phone), strings.TrimSpace(sub.Message)
	if sub.Source == "" {
		sub.Source = site.LeadSourceContact
	}
	if res, err = s.check(&sub); err != nil {
		return res, err
	}

	st, res, err := s.target(ctx, sub.Kind, sub.Slug, MsgNotAvailable)
	if st == nil {
		return res, err
	}
	switch s.seq.Evaluate(st, grants, s.now()) {
	case StageOpen:
	case StagePassword:
		return reject(MsgPasswordFirst)
	default:
		return reject(MsgNotAvailable)
	}

	lead := s.newLead(ctx, st, sub.Source)
	lead.Name, lead.Email, lead.Phone, lead.Message = sub.Name, sub.Email, sub.Phone, sub.Message
	lead.SectionID = s.ownSection(ctx, st, sub.SectionID)
	if err := s.record(ctx, st, lead); err != nil {
		return failed(err)
	}
	return Result{Success: true}, nil
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

// target resolves the site and rejects anything a visitor could not see.
// A nil site means the returned Result and error are final.
func (s *Service) target(ctx context.Context, kind site.Kind, slug, rejectMsg string) (*site.Site, Result, error) {
	st, err := s.sites.BySlug(ctx, kind, slug)
	switch {
	case errors.Is(err, resolve.ErrNotFound):
		res, rerr := reject(rejectMsg)
		return nil, res, rerr
	case err != nil:
		s.log.Error("gate: resolve site", zap.String("kind", string(kind)),
			zap.String("slug", slug), zap.Error(err))
		res, ferr := failed(err)
		return nil, res, ferr
	}
	if st.Availability(s.now()) != site.Live {
		res, rerr := reject(rejectMsg)
		return nil, res, rerr
	}
	return st, Result{}, nil
}

// ownSection returns id when it names a section of st, else nil.
func (s *Service) ownSection(ctx context.Context, st *site.Site, id *uint64) *uint64 {
	if id == nil || s.sections == nil {
		return nil
	}
	secs, err := s.sections.Sections(ctx, st.ID)
	if err != nil {
		s.log.Warn("gate: load sections for contact lead", zap.Uint64("site_id", st.ID), zap.Error(err))
		return nil
	}
	for _, sec := range secs {
		if sec.ID == *id {
			return id
		}
	}
	s.log.Info("gate: dropping foreign section id",
		zap.Uint64("site_id", st.ID), zap.Uint64("section_id", *id))
	return nil
}

// check runs struct validation and maps the first failure to a message.
func (s *Service) check(sub any) (Result, error) {
	err := s.validate.Struct(sub)
	if err == nil {
		return Result{}, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return failed(err)
	}
	fe := verrs[0]
	switch {
	case fe.Field() == "Email":
		return reject(MsgInvalidEmail)
	case fe.Field() == "Name" && fe.Tag() == "required":
		return reject(MsgNameRequired)
	case fe.Tag() == "max":
		return reject(MsgTooLong)
	}
	return reject(MsgSubmissionFailed)
}

func (s *Service) newLead(ctx context.Context, st *site.Site, source string) *site.Lead {
	l := &site.Lead{
		ID:        s.newID(),
		SiteID:    st.ID,
		SiteKind:  st.Kind,
		Source:    source,
		CreatedAt: s.now().UTC(),
	}
	if ri := requestinfo.FromContext(ctx); ri != nil {
		l.IP = ri.IPString()
		l.UserAgent = ri.UA.Summary()
		l.Country = ri.Geo.CountryISO
	}
	return l
}

// record persists the lead, then hands a notification off.  Notification
// problems are logged and never fail the submission.
func (s *Service) record(ctx context.Context, st *site.Site, l *site.Lead) error {
	if err := s.leads.InsertLead(ctx, l); err != nil {
		s.log.Error("gate: insert lead",
			zap.Uint64("site_id", st.ID), zap.String("source", l.Source), zap.Error(err))
		return err
	}
	s.log.Info("lead recorded",
		zap.String("lead_id", l.ID), zap.Uint64("site_id", st.ID), zap.String("source", l.Source))

	to := s.recipients(ctx, st)
	if len(to) == 0 {
		return nil
	}
	msg := message.Email{
		To:      to,
		Subject: fmt.Sprintf("New %s lead from %s", l.Source, st.Name),
		Text: fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\n\n%s",
			l.Name, l.Email, l.Phone, l.Message),
	}
	if err := s.notify.Enqueue(ctx, msg); err != nil {
		s.log.Warn("gate: enqueue lead notification", zap.String("lead_id", l.ID), zap.Error(err))
	}
	return nil
}

func (s *Service) recipients(ctx context.Context, st *site.Site) []string {
	if s.business == nil {
		return nil
	}
	b, err := s.business.Business(ctx, st)
	if err != nil {
		s.log.Warn("gate: load notification recipients", zap.Uint64("site_id", st.ID), zap.Error(err))
		return nil
	}
	if b.Property != nil && b.Property.AgentEmail != "" {
		return []string{b.Property.AgentEmail}
	}
	if b.Organization != nil && b.Organization.Email != "" {
		return []string{b.Organization.Email}
	}
	return nil
}

// observe counts one submission.  ok is the label of a success: "granted"
// for the gates, "accepted" for contact forms.
func observe(gate, ok string, err error) {
	result := ok
	switch {
	case errors.Is(err, ErrGateRejected):
		result = "rejected"
	case err != nil:
		result = "failed"
	}
	metrics.GateSubmissions.WithLabelValues(gate, result).Inc()
}

func reject(msg string) (Result, error) {
	return Result{Success: false, Error: msg}, ErrGateRejected
}

func failed(cause error) (Result, error) {
	return Result{Success: false, Error: MsgSubmissionFailed}, fmt.Errorf("%w: %v", ErrSubmission, cause)
}
