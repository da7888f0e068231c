package moderation

import (
	"context"

	"github.com/pborman/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/iamwavecut/guardbot/internal/config"
	"github.com/iamwavecut/guardbot/internal/observability"
)

// Notice templates carried on decisions. The handler layer renders them,
// translated, with the decision's args.
const (
	NoticeWarn      = "Message removed. Warning %d/%d."
	NoticeMute      = "Message removed, you are muted. Warning %d/%d."
	NoticeBanRepeat = "You are banned for repeated violations."
	NoticeBanSevere = "You are banned for severe violations."
	NoticeFlood     = "Slow down! You are muted for flooding."
)

// Enforcer orchestrates one message evaluation: normalization, matching
// against the chat's effective blocked set, then either the warn ledger
// (content violation) or the spam detector (clean message, never both).
// Entitlement feeds in twice: the term store unions in the premium bonus
// set, and the flood check runs the stricter premium preset. The enforcer
// owns no state of its own and only ever returns a decision value.
type Enforcer struct {
	policy config.Policy
	terms  *TermStore
	gate   premiumChecker
	warns  *WarnLedger
	spam   *SpamDetector
}

func NewEnforcer(policy config.Policy, terms *TermStore, gate premiumChecker, warns *WarnLedger, spam *SpamDetector) *Enforcer {
	return &Enforcer{
		policy: policy,
		terms:  terms,
		gate:   gate,
		warns:  warns,
		spam:   spam,
	}
}

// WarnLimit exposes the policy's terminal warn count for display.
func (e *Enforcer) WarnLimit() int {
	return e.policy.WarnLimit
}

func (e *Enforcer) Evaluate(ctx context.Context, chatID, userID int64, rawText string, isBotAuthor bool) Decision {
	_, span := otel.Tracer("enforcer").Start(ctx, "evaluate")
	defer span.End()
	done := observability.StartEvaluation()

	if isBotAuthor {
		done("bot_author")
		return noDecision
	}

	premium := e.gate != nil && e.gate.IsPremium(chatID)
	normalized := Normalize(rawText)
	matched := Match(normalized, e.terms.EffectiveBlockedSet(chatID))
	span.SetAttributes(attribute.Int("matched_terms", len(matched)), attribute.Bool("premium", premium))

	var decision Decision
	if len(matched) > 0 {
		decision = e.contentDecision(chatID, userID, matched)
	} else if e.spam.Observe(chatID, userID, premium) {
		decision = Decision{
			ID:           uuid.New(),
			Action:       ActionDeleteMute,
			Severity:     1,
			Notice:       NoticeFlood,
			MuteDuration: e.spam.MuteDuration(premium),
		}
	} else {
		done("clean")
		return noDecision
	}

	observability.RecordDecision(string(decision.Action))
	log.WithFields(log.Fields{
		"decision_id": decision.ID,
		"chat_id":     chatID,
		"user_id":     userID,
		"action":      decision.Action,
		"severity":    decision.Severity,
	}).Info("moderation decision")
	done(string(decision.Action))
	return decision
}

func (e *Enforcer) contentDecision(chatID, userID int64, matched []string) Decision {
	result := e.warns.Record(chatID, userID, len(matched))

	decision := Decision{
		ID:           uuid.New(),
		Action:       result.Action,
		MatchedTerms: matched,
		Severity:     result.Count,
	}
	switch {
	case result.Bypassed:
		decision.Severity = e.policy.BypassMatchCount
		decision.Notice = NoticeBanSevere
	case result.Action == ActionDeleteBan:
		decision.Notice = NoticeBanRepeat
	case result.Action == ActionDeleteMute:
		decision.Notice = NoticeMute
		decision.NoticeArgs = []any{result.Count, e.policy.WarnLimit}
		decision.MuteDuration = e.policy.MuteDuration
	default:
		decision.Notice = NoticeWarn
		decision.NoticeArgs = []any{result.Count, e.policy.WarnLimit}
	}
	return decision
}
