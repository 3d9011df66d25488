package policy

import "denuncia/backend/internal/config"

// Identity is one spelling under which an actor may appear as a message
// author. An administrator is known by three equivalent spellings: the
// generic admin label, their display name and their email.
type Identity interface {
	Matches(author string) bool
}

// SystemAdminLabel matches the generic "Admin" author.
type SystemAdminLabel struct{}

func (SystemAdminLabel) Matches(author string) bool { return author == config.AdminAuthor }

// DisplayName matches an administrator's display name.
type DisplayName string

func (d DisplayName) Matches(author string) bool {
	return d != "" && author == string(d)
}

// Email matches an administrator's email exactly.
type Email string

func (e Email) Matches(author string) bool {
	return e != "" && author == string(e)
}

type reporterLabel struct{}

func (reporterLabel) Matches(author string) bool { return author == config.AnonymousAuthor }

// Identities returns the author spellings that count as this actor in mode.
// The token channel only knows the reporter; the id channel knows the
// administrator equivalence set.
func (a Actor) Identities(mode AccessMode) []Identity {
	if mode == ModeToken {
		return []Identity{reporterLabel{}}
	}
	if a.admin == nil {
		return nil
	}
	return []Identity{
		SystemAdminLabel{},
		DisplayName(a.admin.DisplayName),
		Email(a.admin.Email),
	}
}
