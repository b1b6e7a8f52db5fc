package gate

import "errors"

var (
	// ErrGateRejected is a user-correctable refusal: wrong password, bad
	// email, or a site that is not accepting submissions.  The visitor is
	// re-prompted and nothing is written.
	ErrGateRejected = errors.New("gate: rejected")

	// ErrSubmission is a lower-level failure while verifying or recording a
	// submission.  It is logged and reported with a generic retryable
	// message; no grant is issued.
	ErrSubmission = errors.New("gate: submission failed")
)

// Visitor-facing messages.  Internals never reach the visitor.
const (
	MsgIncorrectPassword = "Incorrect password"
	MsgInvalidEmail      = "Please enter a valid email address"
	MsgNameRequired      = "Please enter your name"
	MsgTooLong           = "One of the fields is too long"
	MsgNotAvailable      = "This site is not available"
	MsgPasswordFirst     = "Please enter the site password first"
	MsgSubmissionFailed  = "Failed to submit. Please try again."
)
