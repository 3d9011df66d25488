// Package tracker keeps a follow-up view of one case current. It polls the
// case status and transcript concurrently, applies a fetch result only if no
// newer fetch of the same kind was started after it, and evaluates the
// messaging policy over whatever has loaded so far.
package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"denuncia/backend/internal/config"
	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source reads and writes one case through one access mode.
type Source interface {
	Status(ctx context.Context) (models.Status, error)
	Messages(ctx context.Context) ([]models.Message, error)
	Send(ctx context.Context, body string) (*models.Message, error)
	SetStatus(ctx context.Context, status models.Status) error
}

type fetchKind int

const (
	fetchCase fetchKind = iota
	fetchMessages
	numKinds
)

// Snapshot is the state of the view at one instant.
type Snapshot struct {
	Mode  policy.AccessMode
	Actor policy.Actor
	// Status and Messages are nil until their first fetch has been applied.
	Status   *models.Status
	Messages []models.Message
	Draft    string

	CanSend       policy.Decision
	StatusTargets []models.Status
	// Notice is the banner currently shown, if any.
	Notice *policy.Notice
	// Closed is set after a terminal failure (not found, forbidden).
	Closed bool
}

// CanChangeStatus evaluates a status change to target over this snapshot.
func (s Snapshot) CanChangeStatus(target models.Status) policy.Decision {
	return policy.EvaluateStatusChange(s.view(), target)
}

func (s Snapshot) view() policy.View {
	return policy.View{Mode: s.Mode, Actor: s.Actor, Status: s.Status, Messages: s.Messages}
}

// IsOwn reports whether msg was written by this view's actor.
func (s Snapshot) IsOwn(msg models.Message) bool {
	return policy.IsOwnMessage(msg, s.Mode, s.Actor)
}

type Option func(*Tracker)

// WithLogger logs unexpected failures.
func WithLogger(log *zap.Logger) Option {
	return func(t *Tracker) { t.log = log }
}

// WithClock replaces time.Now, for notice expiry.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// OnChange is called, outside the tracker's lock, after every applied update.
func OnChange(fn func(Snapshot)) Option {
	return func(t *Tracker) { t.onChange = fn }
}

// Tracker is safe for concurrent use.
type Tracker struct {
	src   Source
	mode  policy.AccessMode
	actor policy.Actor

	log      *zap.Logger
	now      func() time.Time
	onChange func(Snapshot)

	mu       sync.Mutex
	seq      [numKinds]uint64
	status   *models.Status
	messages []models.Message
	draft    string
	notice   *policy.Notice
	noticeAt time.Time
	closed   bool
	stopped  bool

	stopOnce sync.Once
	stopCh   chan struct{}
}

func New(src Source, mode policy.AccessMode, actor policy.Actor, opts ...Option) *Tracker {
	t := &Tracker{
		src:    src,
		mode:   mode,
		actor:  actor,
		log:    zap.NewNop(),
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// begin issues the next sequence number for kind.
func (t *Tracker) begin(kind fetchKind) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq[kind]++
	return t.seq[kind]
}

// current reports whether seq is still the newest fetch of kind and the
// tracker is live. Callers hold t.mu.
func (t *Tracker) current(kind fetchKind, seq uint64) bool {
	return !t.stopped && t.seq[kind] == seq
}

// Refresh fetches the case status and the transcript concurrently. It
// returns the first error either fetch hit; results already superseded are
// dropped without error.
func (t *Tracker) Refresh(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return t.refreshStatus(gctx) })
	g.Go(func() error { return t.refreshMessages(gctx) })
	return g.Wait()
}

func (t *Tracker) refreshStatus(ctx context.Context) error {
	seq := t.begin(fetchCase)
	status, err := t.src.Status(ctx)
	t.apply(fetchCase, seq, err, func() { t.status = &status })
	return err
}

func (t *Tracker) refreshMessages(ctx context.Context) error {
	seq := t.begin(fetchMessages)
	msgs, err := t.src.Messages(ctx)
	t.apply(fetchMessages, seq, err, func() {
		if msgs == nil {
			msgs = []models.Message{}
		}
		t.messages = msgs
	})
	return err
}

// apply runs set, or records err, if seq is still current.
func (t *Tracker) apply(kind fetchKind, seq uint64, err error, set func()) {
	t.mu.Lock()
	if !t.current(kind, seq) {
		t.mu.Unlock()
		return
	}
	if err != nil {
		t.failLocked(err)
	} else {
		set()
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)
}

// failLocked shows the banner for err. Cancellation is not a failure.
func (t *Tracker) failLocked(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	n := policy.NoticeFor(err)
	t.notice = &n
	t.noticeAt = t.now()
	if n.Terminal {
		t.closed = true
	}
	if n.Log {
		t.log.Error("follow-up operation failed", zap.String("mode", t.mode.String()), zap.Error(err))
	}
}

func (t *Tracker) notify(s Snapshot) {
	if t.onChange != nil {
		t.onChange(s)
	}
}

// Run refreshes immediately and then every interval until ctx is done or
// Stop is called. Fetch errors are reported through the snapshot notice.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = config.PollInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-t.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	_ = t.Refresh(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if t.Snapshot().Closed {
				return
			}
			_ = t.Refresh(ctx)
		}
	}
}

// Stop tears the view down. Results that arrive afterwards are ignored.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		t.stopped = true
		t.mu.Unlock()
		close(t.stopCh)
	})
}

// SetDraft replaces the unsent message text. Refreshes never touch it.
func (t *Tracker) SetDraft(text string) {
	t.mu.Lock()
	t.draft = text
	t.mu.Unlock()
}

// DismissNotice hides the current banner.
func (t *Tracker) DismissNotice() {
	t.mu.Lock()
	t.notice = nil
	t.mu.Unlock()
}

// Send submits the draft. On success the draft is cleared and the transcript
// refetched; on failure the draft is kept and the banner for the error set.
func (t *Tracker) Send(ctx context.Context) (*models.Message, error) {
	t.mu.Lock()
	draft := t.draft
	decision := policy.EvaluateSend(t.viewLocked())
	t.mu.Unlock()

	if draft == "" {
		return nil, policy.Reject(policy.ReasonInvalidInput, "message body is empty")
	}
	if decision == policy.Denied {
		err := t.localRejection()
		t.fail(err)
		return nil, err
	}

	msg, err := t.src.Send(ctx, draft)
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return msg, err
	}
	if err != nil {
		t.failLocked(err)
	} else {
		if t.draft == draft {
			t.draft = ""
		}
		t.notice = nil
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)
	if err != nil {
		return nil, err
	}

	_ = t.refreshMessages(ctx)
	return msg, nil
}

func (t *Tracker) localRejection() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != nil && t.status.IsTerminal() {
		return policy.Reject(policy.ReasonCaseClosed, "case is closed")
	}
	return policy.Reject(policy.ReasonAwaitingReply, "wait for an administrator reply")
}

// ChangeStatus moves the case to target and refetches it.
func (t *Tracker) ChangeStatus(ctx context.Context, target models.Status) error {
	snap := t.Snapshot()
	if snap.CanChangeStatus(target) == policy.Denied {
		err := statusRejection(snap, target)
		t.fail(err)
		return err
	}
	if err := t.src.SetStatus(ctx, target); err != nil {
		t.fail(err)
		return err
	}
	t.mu.Lock()
	t.notice = nil
	t.mu.Unlock()
	return t.refreshStatus(ctx)
}

// fail shows the banner for err and tells the watcher, unless stopped.
func (t *Tracker) fail(err error) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.failLocked(err)
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.notify(snap)
}

func statusRejection(s Snapshot, target models.Status) error {
	switch {
	case s.Mode != policy.ModeID || !s.Actor.IsAdmin():
		return policy.ErrForbidden
	case !target.Valid():
		return policy.Reject(policy.ReasonInvalidStatus, "unknown status "+string(target))
	case *s.Status == target:
		return policy.Reject(policy.ReasonSameStatus, "case already has status "+string(target))
	default:
		return policy.Reject(policy.ReasonTerminal, "status "+string(*s.Status)+" is final")
	}
}

func (t *Tracker) viewLocked() policy.View {
	return policy.View{Mode: t.mode, Actor: t.actor, Status: t.status, Messages: t.messages}
}

// Snapshot returns the current state. Expired banners are dropped.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	if t.notice != nil && t.notice.Dismiss > 0 && t.now().Sub(t.noticeAt) >= t.notice.Dismiss {
		t.notice = nil
	}
	s := Snapshot{
		Mode:    t.mode,
		Actor:   t.actor,
		Draft:   t.draft,
		CanSend: policy.EvaluateSend(t.viewLocked()),
		Closed:  t.closed,
	}
	if t.status != nil {
		st := *t.status
		s.Status = &st
		s.StatusTargets = policy.StatusTargets(t.mode, t.actor.IsAdmin(), st)
	}
	if t.messages != nil {
		s.Messages = append([]models.Message{}, t.messages...)
	}
	if t.notice != nil {
		n := *t.notice
		s.Notice = &n
	}
	return s
}
