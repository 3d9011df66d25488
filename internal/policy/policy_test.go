package policy_test

import (
	"fmt"
	"testing"

	"denuncia/backend/internal/config"
	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"

	"github.com/stretchr/testify/assert"
)

func msgs(authors ...string) []models.Message {
	out := make([]models.Message, 0, len(authors))
	for i, a := range authors {
		out = append(out, models.Message{ID: uint(i + 1), Author: a, Body: "texto"})
	}
	return out
}

// histories covers empty, reporter-last, admin-last and alternating transcripts.
var histories = map[string][]models.Message{
	"empty":          msgs(),
	"reporter last":  msgs(config.AnonymousAuthor),
	"admin last":     msgs(config.AnonymousAuthor, config.AdminAuthor),
	"named last":     msgs(config.AnonymousAuthor, "Maria Souza"),
	"two reporters":  msgs(config.AdminAuthor, config.AnonymousAuthor, config.AnonymousAuthor),
	"admin only":     msgs(config.AdminAuthor),
	"long alternate": msgs(config.AnonymousAuthor, config.AdminAuthor, config.AnonymousAuthor, "ana@example.org"),
}

func TestCanSendMessage_TerminalBlocksReporter(t *testing.T) {
	for _, status := range []models.Status{models.StatusResolved, models.StatusRejected} {
		for name, h := range histories {
			t.Run(fmt.Sprintf("%s/%s", status, name), func(t *testing.T) {
				assert.False(t, policy.CanSendMessage(status, h, policy.ModeToken, false))
			})
		}
	}
}

func TestCanSendMessage_EmptyHistoryOpen(t *testing.T) {
	for _, status := range []models.Status{models.StatusReceived, models.StatusUnderReview, models.StatusAwaitingInfo} {
		assert.True(t, policy.CanSendMessage(status, nil, policy.ModeToken, false), status)
		assert.True(t, policy.CanSendMessage(status, []models.Message{}, policy.ModeToken, false), status)
	}
}

func TestCanSendMessage_TurnTaking(t *testing.T) {
	for _, status := range []models.Status{models.StatusReceived, models.StatusUnderReview, models.StatusAwaitingInfo} {
		for name, h := range histories {
			if len(h) == 0 {
				continue
			}
			want := h[len(h)-1].Author != config.AnonymousAuthor
			t.Run(fmt.Sprintf("%s/%s", status, name), func(t *testing.T) {
				assert.Equal(t, want, policy.CanSendMessage(status, h, policy.ModeToken, false))
			})
		}
	}
}

func TestCanSendMessage_AdminNeverBlocked(t *testing.T) {
	for _, status := range models.Statuses {
		for name, h := range histories {
			for _, mode := range []policy.AccessMode{policy.ModeToken, policy.ModeID} {
				assert.True(t, policy.CanSendMessage(status, h, mode, true), "%s/%s/%s", status, name, mode)
			}
		}
	}
}

func TestCanChangeStatus_TokenModeNeverAllowed(t *testing.T) {
	for _, current := range models.Statuses {
		for _, target := range models.Statuses {
			assert.False(t, policy.CanChangeStatus(policy.ModeToken, true, current, target))
			assert.False(t, policy.CanChangeStatus(policy.ModeToken, false, current, target))
		}
	}
}

func TestCanChangeStatus_SameTargetForbidden(t *testing.T) {
	for _, s := range models.Statuses {
		assert.False(t, policy.CanChangeStatus(policy.ModeID, true, s, s), s)
	}
}

func TestCanChangeStatus_Rules(t *testing.T) {
	tests := []struct {
		name    string
		mode    policy.AccessMode
		admin   bool
		current models.Status
		target  models.Status
		want    bool
	}{
		{"open to open", policy.ModeID, true, models.StatusReceived, models.StatusUnderReview, true},
		{"back to received", policy.ModeID, true, models.StatusAwaitingInfo, models.StatusReceived, true},
		{"open to terminal", policy.ModeID, true, models.StatusUnderReview, models.StatusRejected, true},
		{"terminal is a sink", policy.ModeID, true, models.StatusResolved, models.StatusUnderReview, false},
		{"terminal to terminal", policy.ModeID, true, models.StatusRejected, models.StatusResolved, false},
		{"non admin", policy.ModeID, false, models.StatusReceived, models.StatusUnderReview, false},
		{"unknown target", policy.ModeID, true, models.StatusReceived, models.Status("ARCHIVED"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.CanChangeStatus(tt.mode, tt.admin, tt.current, tt.target))
		})
	}
}

func TestStatusTargets(t *testing.T) {
	targets := policy.StatusTargets(policy.ModeID, true, models.StatusUnderReview)
	assert.Equal(t, []models.Status{
		models.StatusReceived,
		models.StatusAwaitingInfo,
		models.StatusResolved,
		models.StatusRejected,
	}, targets)

	assert.Empty(t, policy.StatusTargets(policy.ModeID, true, models.StatusResolved))
	assert.Empty(t, policy.StatusTargets(policy.ModeToken, true, models.StatusReceived))
}

func TestScenarios(t *testing.T) {
	t.Run("A: empty history", func(t *testing.T) {
		assert.True(t, policy.CanSendMessage(models.StatusReceived, msgs(), policy.ModeToken, false))
	})
	t.Run("B: reporter waiting", func(t *testing.T) {
		assert.False(t, policy.CanSendMessage(models.StatusReceived, msgs(config.AnonymousAuthor), policy.ModeToken, false))
	})
	t.Run("C: admin replied", func(t *testing.T) {
		h := msgs(config.AnonymousAuthor, config.AdminAuthor)
		assert.True(t, policy.CanSendMessage(models.StatusReceived, h, policy.ModeToken, false))
	})
	t.Run("D: resolved case", func(t *testing.T) {
		h := msgs(config.AdminAuthor)
		assert.False(t, policy.CanSendMessage(models.StatusResolved, h, policy.ModeToken, false))
		assert.True(t, policy.CanSendMessage(models.StatusResolved, h, policy.ModeToken, true))
	})
	t.Run("E: status change", func(t *testing.T) {
		assert.False(t, policy.CanChangeStatus(policy.ModeID, true, models.StatusUnderReview, models.StatusUnderReview))
		assert.True(t, policy.CanChangeStatus(policy.ModeID, true, models.StatusUnderReview, models.StatusResolved))
	})
}

func TestIsOwnMessage(t *testing.T) {
	admin := policy.Administrator("Maria Souza", "maria@example.org")
	reporter := policy.Anonymous()

	tests := []struct {
		name   string
		author string
		mode   policy.AccessMode
		actor  policy.Actor
		want   bool
	}{
		{"token reporter label", config.AnonymousAuthor, policy.ModeToken, reporter, true},
		{"token admin label", config.AdminAuthor, policy.ModeToken, reporter, false},
		{"token view ignores actor", config.AnonymousAuthor, policy.ModeToken, admin, true},
		{"id system label", config.AdminAuthor, policy.ModeID, admin, true},
		{"id display name", "Maria Souza", policy.ModeID, admin, true},
		{"id email", "maria@example.org", policy.ModeID, admin, true},
		{"id email is exact", "Maria@Example.org", policy.ModeID, admin, false},
		{"id other admin", "João Lima", policy.ModeID, admin, false},
		{"id reporter", config.AnonymousAuthor, policy.ModeID, admin, false},
		{"id anonymous actor", config.AdminAuthor, policy.ModeID, reporter, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := models.Message{Author: tt.author, Body: "oi"}
			assert.Equal(t, tt.want, policy.IsOwnMessage(m, tt.mode, tt.actor))
		})
	}
}

func TestIdentity_EmptyNeverMatches(t *testing.T) {
	actor := policy.Administrator("", "")

	assert.False(t, policy.IsOwnMessage(models.Message{Author: ""}, policy.ModeID, actor))
	assert.True(t, policy.IsOwnMessage(models.Message{Author: config.AdminAuthor}, policy.ModeID, actor))
}

func TestActor_AuthorLabel(t *testing.T) {
	assert.Equal(t, config.AnonymousAuthor, policy.Anonymous().AuthorLabel())
	assert.Equal(t, "Maria Souza", policy.Administrator("Maria Souza", "m@x.org").AuthorLabel())
	assert.Equal(t, config.AdminAuthor, policy.Administrator("", "m@x.org").AuthorLabel())

	_, ok := policy.Anonymous().Admin()
	assert.False(t, ok)
	a, ok := policy.Administrator("Maria", "m@x.org").Admin()
	assert.True(t, ok)
	assert.Equal(t, "m@x.org", a.Email)
}
