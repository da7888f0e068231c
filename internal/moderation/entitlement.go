package moderation

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/guardbot/internal/db"
	errs "github.com/iamwavecut/guardbot/internal/errors"
	"github.com/iamwavecut/guardbot/internal/event"
)

// EntitlementGate tracks premium status per chat. Expiry is evaluated at
// read time against the injected clock; stale records are evicted on the
// next query rather than by a background sweep.
type EntitlementGate struct {
	store db.Client
	now   func() time.Time

	mu       sync.RWMutex
	expiries map[int64]time.Time
}

type EntitlementStatus struct {
	Active        bool
	ExpiresAt     time.Time
	RemainingDays int
}

func NewEntitlementGate(store db.Client, now func() time.Time) *EntitlementGate {
	if now == nil {
		now = time.Now
	}
	return &EntitlementGate{
		store:    store,
		now:      now,
		expiries: make(map[int64]time.Time),
	}
}

// Load seeds entitlements from the store. Call once at startup.
func (g *EntitlementGate) Load(ctx context.Context) error {
	all, err := g.store.GetAllEntitlements(ctx)
	if err != nil {
		return errors.Wrap(err, "load entitlements")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, e := range all {
		g.expiries[e.ChatID] = e.ExpiresAt
	}
	return nil
}

func (g *EntitlementGate) IsPremium(chatID int64) bool {
	return g.Status(chatID).Active
}

func (g *EntitlementGate) Status(chatID int64) EntitlementStatus {
	now := g.now()

	g.mu.RLock()
	expiry, ok := g.expiries[chatID]
	g.mu.RUnlock()
	if !ok {
		return EntitlementStatus{}
	}
	if !expiry.After(now) {
		g.evict(chatID, expiry)
		return EntitlementStatus{}
	}

	remaining := int((expiry.Sub(now) + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
	return EntitlementStatus{
		Active:        true,
		ExpiresAt:     expiry,
		RemainingDays: remaining,
	}
}

// Grant extends the entitlement by the given number of days, stacking on
// the current expiry when still active, or starting from now otherwise.
func (g *EntitlementGate) Grant(chatID int64, days int) time.Time {
	now := g.now()

	g.mu.Lock()
	base := now
	if current, ok := g.expiries[chatID]; ok && current.After(now) {
		base = current
	}
	expiry := base.Add(time.Duration(days) * 24 * time.Hour)
	g.expiries[chatID] = expiry
	g.mu.Unlock()

	event.Bus.Enqueue(event.NewJob("entitlement_upsert", now.Add(time.Minute), func(ctx context.Context) error {
		return g.store.UpsertEntitlement(ctx, &db.Entitlement{ChatID: chatID, ExpiresAt: expiry})
	}))
	log.WithFields(log.Fields{"chat_id": chatID, "expires_at": expiry}).Info("premium granted")
	return expiry
}

// Revoke drops the entitlement. Returns ErrNotFound when there is none.
func (g *EntitlementGate) Revoke(chatID int64) error {
	g.mu.Lock()
	_, ok := g.expiries[chatID]
	delete(g.expiries, chatID)
	g.mu.Unlock()
	if !ok {
		return errors.Wrapf(errs.ErrNotFound, "entitlement for chat %d", chatID)
	}

	event.Bus.Enqueue(event.NewJob("entitlement_delete", g.now().Add(time.Minute), func(ctx context.Context) error {
		return g.store.DeleteEntitlement(ctx, chatID)
	}))
	return nil
}

// evict removes an expired record, but only if it has not been re-granted
// since the unlocked read.
func (g *EntitlementGate) evict(chatID int64, seen time.Time) {
	g.mu.Lock()
	current, ok := g.expiries[chatID]
	if !ok || !current.Equal(seen) {
		g.mu.Unlock()
		return
	}
	delete(g.expiries, chatID)
	g.mu.Unlock()

	event.Bus.Enqueue(event.NewJob("entitlement_delete", g.now().Add(time.Minute), func(ctx context.Context) error {
		return g.store.DeleteEntitlement(ctx, chatID)
	}))
	log.WithField("chat_id", chatID).Debug("expired entitlement evicted")
}
