package policy

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"denuncia/backend/internal/config"
)

var (
	// ErrNotFound means the token or id does not resolve to a case.
	ErrNotFound = errors.New("case not found")
	// ErrForbidden means id-mode access was attempted without administrator rights.
	ErrForbidden = errors.New("administrator access required")
)

// Rejection reasons.
const (
	ReasonAwaitingReply = "awaiting_reply"
	ReasonCaseClosed    = "case_closed"
	ReasonSameStatus    = "same_status"
	ReasonTerminal      = "terminal_status"
	ReasonInvalidStatus = "invalid_status"
	ReasonInvalidInput  = "invalid_input"
)

// RejectedError is returned when an operation is refused for a business
// reason. Reason is a stable code, Message is human-readable.
type RejectedError struct {
	Reason  string
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "rejected: " + e.Reason
	}
	return fmt.Sprintf("rejected: %s: %s", e.Reason, e.Message)
}

// Reject builds a RejectedError.
func Reject(reason, message string) error {
	return &RejectedError{Reason: reason, Message: message}
}

// Kind is the classification every error is reduced to before it is shown.
type Kind int

const (
	KindOther Kind = iota
	KindNotFound
	KindForbidden
	KindFlood
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindFlood:
		return "flood"
	default:
		return "other"
	}
}

var floodIndicators = []string{
	"flood",
	ReasonAwaitingReply,
	ReasonCaseClosed,
	"aguarde",
	"aguardar",
	"administrador",
	"wait for",
}

// IsFloodSignal reports whether a rejection reason or message says the
// reporter has to wait for staff before writing again.
func IsFloodSignal(text string) bool {
	lower := strings.ToLower(text)
	for _, ind := range floodIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

// Classify reduces err to exactly one Kind. A nil error is KindOther.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindOther
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	}
	var rej *RejectedError
	if !errors.As(err, &rej) {
		return KindOther
	}
	if flood, known := floodReasons[rej.Reason]; known {
		return kindOf(flood)
	}
	// Unknown or missing codes: fall back to what the message says.
	return kindOf(IsFloodSignal(rej.Reason) || IsFloodSignal(rej.Message))
}

// floodReasons maps every reason code this service issues to whether it is
// a flood rejection. Messages are not consulted for these codes.
var floodReasons = map[string]bool{
	"flood":             true,
	ReasonAwaitingReply: true,
	ReasonCaseClosed:    true,
	ReasonSameStatus:    false,
	ReasonTerminal:      false,
	ReasonInvalidStatus: false,
	ReasonInvalidInput:  false,
}

func kindOf(flood bool) Kind {
	if flood {
		return KindFlood
	}
	return KindOther
}

// Severity selects how a notice is displayed.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// Notice describes the banner to show for a failed operation.
type Notice struct {
	Kind     Kind
	Severity Severity
	// Key is the localization key of the banner text.
	Key string
	// Dismiss is how long the banner stays up; zero keeps it until closed.
	Dismiss time.Duration
	// Terminal means the current view cannot continue.
	Terminal bool
	// Redirect means the user is sent back to the entry point.
	Redirect bool
	// Log marks failures that should also be logged.
	Log bool
}

// NoticeFor picks the banner for err.
func NoticeFor(err error) Notice {
	kind := Classify(err)
	switch kind {
	case KindFlood:
		return Notice{Kind: kind, Severity: SeverityWarning, Key: "banner.flood", Dismiss: config.WarningBannerTTL}
	case KindNotFound:
		return Notice{Kind: kind, Severity: SeverityError, Key: "banner.not_found", Terminal: true, Redirect: true}
	case KindForbidden:
		return Notice{Kind: kind, Severity: SeverityError, Key: "banner.forbidden", Terminal: true}
	default:
		return Notice{Kind: kind, Severity: SeverityError, Key: "banner.error", Log: true}
	}
}
