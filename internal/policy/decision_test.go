package policy_test

import (
	"errors"
	"fmt"
	"testing"

	"denuncia/backend/internal/config"
	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"

	"github.com/stretchr/testify/assert"
)

func statusPtr(s models.Status) *models.Status { return &s }

func TestEvaluateSend(t *testing.T) {
	tests := []struct {
		name string
		view policy.View
		want policy.Decision
	}{
		{"nothing loaded", policy.View{}, policy.Unknown},
		{"messages missing", policy.View{Status: statusPtr(models.StatusReceived)}, policy.Unknown},
		{"status missing", policy.View{Messages: msgs()}, policy.Unknown},
		{"terminal known before messages", policy.View{Status: statusPtr(models.StatusRejected)}, policy.Denied},
		{"loaded empty", policy.View{Status: statusPtr(models.StatusReceived), Messages: msgs()}, policy.Allowed},
		{"loaded waiting", policy.View{Status: statusPtr(models.StatusReceived), Messages: msgs(config.AnonymousAuthor)}, policy.Denied},
		{"admin before load", policy.View{Actor: policy.Administrator("Ana", "ana@x.org")}, policy.Allowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.EvaluateSend(tt.view))
		})
	}
}

func TestEvaluateStatusChange(t *testing.T) {
	admin := policy.Administrator("Ana", "ana@x.org")

	assert.Equal(t, policy.Denied, policy.EvaluateStatusChange(policy.View{Mode: policy.ModeToken, Actor: admin}, models.StatusResolved))
	assert.Equal(t, policy.Unknown, policy.EvaluateStatusChange(policy.View{Mode: policy.ModeID, Actor: admin}, models.StatusResolved))
	assert.Equal(t, policy.Allowed, policy.EvaluateStatusChange(policy.View{
		Mode: policy.ModeID, Actor: admin, Status: statusPtr(models.StatusReceived),
	}, models.StatusResolved))
	assert.Equal(t, policy.Denied, policy.EvaluateStatusChange(policy.View{
		Mode: policy.ModeID, Actor: admin, Status: statusPtr(models.StatusReceived),
	}, models.StatusReceived))
	assert.Equal(t, "unknown", policy.Unknown.String())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want policy.Kind
	}{
		{"not found", policy.ErrNotFound, policy.KindNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", policy.ErrNotFound), policy.KindNotFound},
		{"forbidden", policy.ErrForbidden, policy.KindForbidden},
		{"awaiting reply", policy.Reject(policy.ReasonAwaitingReply, ""), policy.KindFlood},
		{"closed case", policy.Reject(policy.ReasonCaseClosed, ""), policy.KindFlood},
		{"pt message", policy.Reject("http_403", "Aguarde a resposta do administrador."), policy.KindFlood},
		{"flood word", policy.Reject("", "Flood control"), policy.KindFlood},
		{"same status", policy.Reject(policy.ReasonSameStatus, "status unchanged"), policy.KindOther},
		{"known code ignores admin wording", policy.Reject(policy.ReasonInvalidInput, "o administrador recusou o anexo"), policy.KindOther},
		{"terminal ignores wait wording", policy.Reject(policy.ReasonTerminal, "wait for a new case"), policy.KindOther},
		{"flood code despite neutral text", policy.Reject(policy.ReasonAwaitingReply, "try later"), policy.KindFlood},
		{"plain error", errors.New("connection reset"), policy.KindOther},
		{"nil", nil, policy.KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Classify(tt.err))
		})
	}
}

func TestNoticeFor(t *testing.T) {
	flood := policy.NoticeFor(policy.Reject(policy.ReasonAwaitingReply, ""))
	assert.Equal(t, policy.SeverityWarning, flood.Severity)
	assert.Equal(t, config.WarningBannerTTL, flood.Dismiss)
	assert.False(t, flood.Terminal)
	assert.False(t, flood.Log)

	notFound := policy.NoticeFor(policy.ErrNotFound)
	assert.True(t, notFound.Terminal)
	assert.True(t, notFound.Redirect)

	forbidden := policy.NoticeFor(policy.ErrForbidden)
	assert.True(t, forbidden.Terminal)
	assert.False(t, forbidden.Redirect)

	other := policy.NoticeFor(errors.New("boom"))
	assert.Equal(t, policy.SeverityError, other.Severity)
	assert.Zero(t, other.Dismiss)
	assert.True(t, other.Log)
	assert.Equal(t, "banner.error", other.Key)
}

func TestRejectedError_Message(t *testing.T) {
	assert.Equal(t, "rejected: same_status", policy.Reject(policy.ReasonSameStatus, "").Error())
	assert.Equal(t, "rejected: case_closed: closed", policy.Reject(policy.ReasonCaseClosed, "closed").Error())
}
