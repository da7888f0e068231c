package moderation

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/guardbot/internal/config"
	"github.com/iamwavecut/guardbot/internal/db"
	"github.com/iamwavecut/guardbot/internal/event"
)

type userKey struct {
	chatID int64
	userID int64
}

// WarnLedger is the escalation state machine: a monotonic violation
// counter per (chat, user) mapped onto sanction tiers. The count never
// decays on its own; only an explicit administrative Reset clears it.
type WarnLedger struct {
	policy config.Policy
	store  db.Client

	mu     sync.Mutex
	counts map[userKey]int
}

type WarnResult struct {
	Count    int
	Action   Action
	Bypassed bool
}

func NewWarnLedger(store db.Client, policy config.Policy) *WarnLedger {
	return &WarnLedger{
		policy: policy,
		store:  store,
		counts: make(map[userKey]int),
	}
}

// Load seeds warn counts from the store. Call once at startup.
func (l *WarnLedger) Load(ctx context.Context) error {
	all, err := l.store.GetAllWarns(ctx)
	if err != nil {
		return errors.Wrap(err, "load warns")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, w := range all {
		l.counts[userKey{w.ChatID, w.UserID}] = w.Count
	}
	return nil
}

// Record advances the ledger for a message that matched matchCount blocked
// terms. A message with enough simultaneous matches bypasses escalation
// entirely: the counter is left untouched and the ban tier fires at once.
// The durable write is queued outside the lock; the returned decision is
// valid even if that write later fails.
func (l *WarnLedger) Record(chatID, userID int64, matchCount int) WarnResult {
	if matchCount <= 0 {
		return WarnResult{Action: ActionNone}
	}
	key := userKey{chatID, userID}

	if matchCount >= l.policy.BypassMatchCount {
		l.mu.Lock()
		count := l.counts[key]
		l.mu.Unlock()
		return WarnResult{Count: count, Action: ActionDeleteBan, Bypassed: true}
	}

	l.mu.Lock()
	count := l.counts[key] + 1
	l.counts[key] = count
	l.mu.Unlock()

	l.persist(chatID, userID, count)
	return WarnResult{Count: count, Action: l.tier(count)}
}

// Count reports the current warn count without advancing it.
func (l *WarnLedger) Count(chatID, userID int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[userKey{chatID, userID}]
}

// Reset clears the counter for a user, the administrative escape hatch.
func (l *WarnLedger) Reset(chatID, userID int64) {
	l.mu.Lock()
	delete(l.counts, userKey{chatID, userID})
	l.mu.Unlock()

	event.Bus.Enqueue(event.NewJob("warn_delete", time.Now().Add(time.Minute), func(ctx context.Context) error {
		return l.store.DeleteWarn(ctx, chatID, userID)
	}))
	log.WithFields(log.Fields{"chat_id": chatID, "user_id": userID}).Info("warnings reset")
}

func (l *WarnLedger) tier(count int) Action {
	switch {
	case count >= l.policy.WarnLimit:
		return ActionDeleteBan
	case count >= l.policy.WarnLimit-2:
		return ActionDeleteMute
	default:
		return ActionDeleteWarn
	}
}

func (l *WarnLedger) persist(chatID, userID int64, count int) {
	event.Bus.Enqueue(event.NewJob("warn_upsert", time.Now().Add(time.Minute), func(ctx context.Context) error {
		return l.store.UpsertWarn(ctx, &db.Warn{ChatID: chatID, UserID: userID, Count: count})
	}))
}
