// Package policy decides who may send messages and change the status of a case
// in the follow-up flow. Every function here is pure: callers pass the case
// status, the transcript and the acting party, and re-evaluate whenever any
// of those change.
package policy

import (
	"denuncia/backend/internal/config"
	"denuncia/backend/internal/models"
)

// AccessMode is the channel a case is being viewed through.
type AccessMode int

const (
	// ModeToken is possession-based access with the follow-up token.
	ModeToken AccessMode = iota
	// ModeID is identity-based access by numeric id, for administrators.
	ModeID
)

func (m AccessMode) String() string {
	if m == ModeID {
		return "id"
	}
	return "token"
}

// Admin is the identity of an authenticated administrator.
type Admin struct {
	DisplayName string
	Email       string
}

// Actor is the party evaluating the policy: either the anonymous reporter
// holding the token, or an administrator. The zero value is the reporter.
type Actor struct {
	admin *Admin
}

// Anonymous returns the reporter actor.
func Anonymous() Actor { return Actor{} }

// Administrator returns an administrator actor.
func Administrator(displayName, email string) Actor {
	return Actor{admin: &Admin{DisplayName: displayName, Email: email}}
}

func (a Actor) IsAdmin() bool { return a.admin != nil }

// Admin returns the administrator identity, or false for the reporter.
func (a Actor) Admin() (Admin, bool) {
	if a.admin == nil {
		return Admin{}, false
	}
	return *a.admin, true
}

// AuthorLabel is the author recorded on messages this actor sends.
func (a Actor) AuthorLabel() string {
	if a.admin == nil {
		return config.AnonymousAuthor
	}
	if a.admin.DisplayName != "" {
		return a.admin.DisplayName
	}
	return config.AdminAuthor
}

// CanSendMessage reports whether a new message may be sent right now.
//
// Administrators are never blocked. The reporter cannot write into a terminal
// case, may always open the conversation, and otherwise has to wait for a
// reply before sending again.
func CanSendMessage(status models.Status, messages []models.Message, mode AccessMode, actorIsAdmin bool) bool {
	if actorIsAdmin {
		return true
	}
	if status.IsTerminal() {
		return false
	}
	if len(messages) == 0 {
		return true
	}
	return !isReporterAuthor(messages[len(messages)-1].Author)
}

// IsOwnMessage reports whether msg should be attributed to the current actor
// when rendering a transcript. It has no authorization effect.
func IsOwnMessage(msg models.Message, mode AccessMode, actor Actor) bool {
	for _, id := range actor.Identities(mode) {
		if id.Matches(msg.Author) {
			return true
		}
	}
	return false
}

// CanChangeStatus reports whether actor may move a case from current to
// target. Only administrators on the id channel can, terminal cases have no
// outgoing transition and re-selecting the current status is not a transition.
func CanChangeStatus(mode AccessMode, actorIsAdmin bool, current, target models.Status) bool {
	if mode != ModeID || !actorIsAdmin {
		return false
	}
	if !target.Valid() || target == current {
		return false
	}
	return !current.IsTerminal()
}

// StatusTargets lists the statuses an administrator may select for a case
// currently in current.
func StatusTargets(mode AccessMode, actorIsAdmin bool, current models.Status) []models.Status {
	var out []models.Status
	for _, s := range models.Statuses {
		if CanChangeStatus(mode, actorIsAdmin, current, s) {
			out = append(out, s)
		}
	}
	return out
}

func isReporterAuthor(author string) bool {
	return reporterLabel{}.Matches(author)
}
