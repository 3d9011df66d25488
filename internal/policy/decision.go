package policy

import "denuncia/backend/internal/models"

// Decision is a tri-state policy answer. Unknown means an input has not
// loaded yet and must not be read as a denial.
type Decision int

const (
	Unknown Decision = iota
	Allowed
	Denied
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

func decide(ok bool) Decision {
	if ok {
		return Allowed
	}
	return Denied
}

// View is what a follow-up screen knows at a given moment. A nil Status or
// a nil Messages slice means that fetch has not completed; an empty non-nil
// slice is a loaded, empty transcript.
type View struct {
	Mode     AccessMode
	Actor    Actor
	Status   *models.Status
	Messages []models.Message
}

// EvaluateSend is CanSendMessage over a possibly incomplete view.
func EvaluateSend(v View) Decision {
	if v.Actor.IsAdmin() {
		return Allowed
	}
	if v.Status == nil {
		return Unknown
	}
	if v.Status.IsTerminal() {
		return Denied
	}
	if v.Messages == nil {
		return Unknown
	}
	return decide(CanSendMessage(*v.Status, v.Messages, v.Mode, false))
}

// EvaluateStatusChange is CanChangeStatus over a possibly incomplete view.
func EvaluateStatusChange(v View, target models.Status) Decision {
	if v.Mode != ModeID || !v.Actor.IsAdmin() {
		return Denied
	}
	if v.Status == nil {
		return Unknown
	}
	return decide(CanChangeStatus(v.Mode, true, *v.Status, target))
}
