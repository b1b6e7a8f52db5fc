// components/gates/gates.go
//
// Gate and contact submission endpoints.
//
// Routes
// ------
//
//	POST /api/{kind}/password   {slug, password}
//	POST /api/{kind}/lead       {slug, email, name?, phone?}
//	POST /api/{kind}/contact    {slug, sectionId?, source?, name, email, phone?, message?}
//
// Each route takes two body shapes:
//
//   - application/json: the reply is gate.Result as JSON.  Rejections are
//     200 with success false; verification or storage failures are 500
//     with a generic message.
//   - an HTML form post from a rendered page: internal/form checks the
//     CSRF token, timing, and field rules first.  Success on a gate sets
//     the grant and answers 303 to the site; a rejection re-renders the
//     gate with the message inline.
//
// Grant cookies are always set here, server-side, and only after the
// gate service has accepted the submission.
//
//------------------------------------------------------------------------------

package gates

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/component"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/form"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/gate"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/grant"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/head"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/logger"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/publish"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/requestinfo"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/view"
)

// maxJSON caps JSON bodies; the largest field is a 5000-character message.
const maxJSON = 64 << 10

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component serves the submission API.
type Component struct {
	pipeline *publish.Pipeline
	gates    *gate.Service
	grants   *grant.Issuer
	forms    *form.Set
	views    *view.Renderer
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "gates" }

// Init keeps the services the handlers call.
func (c *Component) Init(d component.Deps) error {
	if d.Gates == nil || d.Grants == nil || d.Forms == nil {
		return errors.New("gates: Gates, Grants, and Forms are required")
	}
	c.pipeline, c.gates, c.grants, c.forms, c.views = d.Pipeline, d.Gates, d.Grants, d.Forms, d.Views
	return nil
}

// Routes builds the submission routes.  requestinfo.Enrich stamps every
// request so leads carry IP, country, and user agent.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestinfo.Enrich)
	r.Post("/api/{kind}/password", c.password)
	r.Post("/api/{kind}/lead", c.lead)
	r.Post("/api/{kind}/contact", c.contact)
	return r
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) password(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}

	if isJSON(r) {
		var sub gate.PasswordSubmission
		if !decode(w, r, &sub) {
			return
		}
		sub.Kind = kind
		res, err := c.gates.SubmitPassword(r.Context(), sub)
		c.reply(w, r, res, err, grant.Access)
		return
	}

	_, err := c.forms.Parse(form.Password, w, r)
	req := publish.Request{Kind: kind, Slug: r.PostForm.Get("slug")}
	if err != nil {
		c.formRejected(w, r, req, gate.StagePassword, err, nil)
		return
	}
	// The raw value: passwords are not trimmed.
	res, err := c.gates.SubmitPassword(r.Context(), gate.PasswordSubmission{
		Kind: kind, Slug: req.Slug, Password: r.PostForm.Get("password"),
	})
	c.gateResult(w, r, req, gate.StagePassword, res, err, grant.Access, nil)
}

func (c *Component) lead(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}

	if isJSON(r) {
		var sub gate.LeadSubmission
		if !decode(w, r, &sub) {
			return
		}
		sub.Kind = kind
		res, err := c.gates.SubmitLead(r.Context(), sub, c.grants.ForRequest(r))
		c.reply(w, r, res, err, grant.Lead)
		return
	}

	vals, err := c.forms.Parse(form.Lead, w, r)
	req := publish.Request{Kind: kind, Slug: r.PostForm.Get("slug")}
	prefill := prefillFrom(r.PostForm, "name", "email", "phone")
	if err != nil {
		c.formRejected(w, r, req, gate.StageLead, err, prefill)
		return
	}
	res, err := c.gates.SubmitLead(r.Context(), gate.LeadSubmission{
		Kind: kind, Slug: req.Slug, Name: vals["name"], Email: vals["email"], Phone: vals["phone"],
	}, c.grants.ForRequest(r))
	c.gateResult(w, r, req, gate.StageLead, res, err, grant.Lead, prefill)
}

func (c *Component) contact(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}

	if isJSON(r) {
		var sub gate.ContactSubmission
		if !decode(w, r, &sub) {
			return
		}
		sub.Kind = kind
		res, err := c.gates.SubmitContact(r.Context(), sub, c.grants.ForRequest(r))
		c.reply(w, r, res, err, "")
		return
	}

	// Parse the body once to pick the form definition, then validate.
	r.Body = http.MaxBytesReader(w, r.Body, maxJSON)
	if err := r.ParseForm(); err != nil {
		c.notice(w, r, http.StatusBadRequest, form.MsgUnknown)
		return
	}
	id := form.Contact
	if r.PostForm.Get("source") == "inquiry" {
		id = form.Inquiry
	}
	vals, err := c.forms.Validate(id, r.PostForm)
	if err != nil {
		c.notice(w, r, http.StatusUnprocessableEntity, firstMessage(err))
		return
	}

	sub := gate.ContactSubmission{
		Kind: kind, Slug: r.PostForm.Get("slug"), Source: r.PostForm.Get("source"),
		Name: vals["name"], Email: vals["email"], Phone: vals["phone"], Message: vals["message"],
	}
	if raw := r.PostForm.Get("sectionId"); raw != "" {
		if id, perr := strconv.ParseUint(raw, 10, 64); perr == nil {
			sub.SectionID = &id
		}
	}

	res, err := c.gates.SubmitContact(r.Context(), sub, c.grants.ForRequest(r))
	switch {
	case errors.Is(err, gate.ErrSubmission):
		c.notice(w, r, http.StatusInternalServerError, "")
	case err != nil:
		c.notice(w, r, http.StatusUnprocessableEntity, res.Error)
	default:
		back := backTo(r)
		if sub.SectionID != nil {
			back += "#section-" + strconv.FormatUint(*sub.SectionID, 10)
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
	}
}

/*──────────────────────────── JSON replies ─────────────────────────────────*/

// reply writes res as JSON.  A successful gate submission also sets the
// grant cookie k; contact submissions pass "".
func (c *Component) reply(w http.ResponseWriter, r *http.Request, res gate.Result, err error, k grant.Kind) {
	status := http.StatusOK
	switch {
	case errors.Is(err, gate.ErrSubmission):
		status = http.StatusInternalServerError
	case err == nil && res.Success && k != "":
		if ierr := c.grants.Issue(w, r, res.Site, k); ierr != nil {
			logger.FromContext(r.Context()).Error("issue grant", zap.String("grant", string(k)), zap.Error(ierr))
			res, status = gate.Result{Error: gate.MsgSubmissionFailed}, http.StatusInternalServerError
		}
	}
	writeJSON(w, status, res)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSON)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, gate.Result{Error: gate.MsgSubmissionFailed})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

/*──────────────────────────── HTML replies ─────────────────────────────────*/

// gateResult finishes an HTML gate post: grant and 303 on success, the
// gate again with the message on rejection.
func (c *Component) gateResult(w http.ResponseWriter, r *http.Request, req publish.Request, stage gate.Stage,
	res gate.Result, err error, k grant.Kind, prefill map[string]string) {
	switch {
	case errors.Is(err, gate.ErrSubmission):
		c.notice(w, r, http.StatusInternalServerError, "")
	case err != nil:
		out := c.pipeline.Reprompt(r.Context(), req, stage, r.PostForm.Get("return_to"), res.Error, prefill)
		component.Respond(c.views, w, r, out)
	default:
		if ierr := c.grants.Issue(w, r, res.Site, k); ierr != nil {
			logger.FromContext(r.Context()).Error("issue grant", zap.String("grant", string(k)), zap.Error(ierr))
			c.notice(w, r, http.StatusInternalServerError, "")
			return
		}
		http.Redirect(w, r, publish.SafeReturn(r.PostForm.Get("return_to"), res.Site), http.StatusSeeOther)
	}
}

// formRejected re-renders the gate when internal/form refused the post.
func (c *Component) formRejected(w http.ResponseWriter, r *http.Request, req publish.Request, stage gate.Stage,
	err error, prefill map[string]string) {
	if !form.IsValidationError(err) {
		c.notice(w, r, http.StatusBadRequest, form.MsgUnknown)
		return
	}
	out := c.pipeline.Reprompt(r.Context(), req, stage, r.PostForm.Get("return_to"), firstMessage(err), prefill)
	component.Respond(c.views, w, r, out)
}

// notice writes the error layout with msg, or the generic text when msg
// is empty.
func (c *Component) notice(w http.ResponseWriter, r *http.Request, status int, msg string) {
	component.Respond(c.views, w, r, publish.Outcome{
		Kind:   publish.Error,
		Status: status,
		Layout: view.LayoutError,
		Data:   view.Data{Head: head.ForGate(nil, "Not sent"), Message: msg},
	})
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

// kindParam reads {kind}; unknown kinds are 404.
func kindParam(w http.ResponseWriter, r *http.Request) (site.Kind, bool) {
	k := site.Kind(chi.URLParam(r, "kind"))
	if !k.IsValid() {
		http.NotFound(w, r)
		return "", false
	}
	return k, true
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func firstMessage(err error) string {
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		return ve.First()
	}
	return form.MsgUnknown
}

func prefillFrom(v url.Values, names ...string) map[string]string {
	out := make(map[string]string, len(names))
	for _, n := range names {
		if s := v.Get(n); s != "" {
			out[n] = s
		}
	}
	return out
}

// backTo is the same-host path the form was posted from, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Host != r.Host || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
