package moderation

import (
	"sync"
	"time"

	"github.com/iamwavecut/guardbot/internal/config"
)

// SpamDetector keeps a sliding window of recent message timestamps per
// (chat, user) and flags bursts that exceed the allowance. Windows are
// ephemeral: a restart grants amnesty, which is the accepted trade-off.
type SpamDetector struct {
	cfg config.Spam
	now func() time.Time

	mu      sync.Mutex
	windows map[userKey][]time.Time
}

func NewSpamDetector(cfg config.Spam, now func() time.Time) *SpamDetector {
	if now == nil {
		now = time.Now
	}
	return &SpamDetector{
		cfg:     cfg,
		now:     now,
		windows: make(map[userKey][]time.Time),
	}
}

// Observe records a clean message and reports whether the user's window
// now exceeds the allowance, the premium preset's when the chat is
// entitled. The window is retained after a flag; stale entries fall out
// on every access, so it decays on its own.
func (d *SpamDetector) Observe(chatID, userID int64, premium bool) bool {
	now := d.now()
	cutoff := now.Add(-d.cfg.Window)
	key := userKey{chatID, userID}

	d.mu.Lock()
	defer d.mu.Unlock()

	window := d.windows[key]
	kept := window[:0]
	for _, ts := range window {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, now)
	d.windows[key] = kept

	return len(kept) > d.allowance(premium)
}

func (d *SpamDetector) allowance(premium bool) int {
	if premium {
		return d.cfg.PremiumMaxMessages
	}
	return d.cfg.MaxMessages
}

// MuteDuration is the sanction length applied on a flagged burst.
func (d *SpamDetector) MuteDuration(premium bool) time.Duration {
	if premium {
		return d.cfg.PremiumMuteDuration
	}
	return d.cfg.MuteDuration
}
