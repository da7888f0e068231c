package handlers

import (
	"context"
	"fmt"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/guardbot/internal/bot"
	"github.com/iamwavecut/guardbot/internal/i18n"
	"github.com/iamwavecut/guardbot/internal/moderation"
	"github.com/iamwavecut/guardbot/internal/observability"
)

// Watchdog feeds every plain group message through the decision engine and
// executes whatever comes back: delete, then mute or ban, then a notice.
// The engine only ever returns a decision; all transport calls live here.
type Watchdog struct {
	s bot.Service
}

func NewWatchdog(s bot.Service) *Watchdog {
	return &Watchdog{s: s}
}

func (w *Watchdog) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (bool, error) {
	if chat == nil || user == nil || u.Message == nil {
		return true, nil
	}
	m := u.Message
	if m.Text == "" || m.IsCommand() {
		return true, nil
	}
	if !chat.IsGroup() && !chat.IsSuperGroup() {
		return true, nil
	}

	decision := w.s.GetEnforcer().Evaluate(ctx, chat.ID, user.ID, m.Text, user.IsBot)
	if decision.IsNone() {
		return true, nil
	}

	w.execute(ctx, decision, chat, user, m)
	return false, nil
}

func (w *Watchdog) execute(ctx context.Context, decision moderation.Decision, chat *api.Chat, user *api.User, m *api.Message) {
	entry := w.getLogEntry().WithFields(log.Fields{
		"decision_id": decision.ID,
		"chat_id":     chat.ID,
		"user_id":     user.ID,
		"action":      decision.Action,
	})
	b := w.s.GetBot()
	enforced := true

	if err := bot.DeleteChatMessage(ctx, b, chat.ID, m.MessageID); err != nil {
		entry.WithError(err).Warn("cant delete message")
		observability.RecordEnforcementFailure(string(decision.Action))
		enforced = false
	}

	switch decision.Action {
	case moderation.ActionDeleteMute:
		if err := bot.RestrictChatting(ctx, b, user.ID, chat.ID, decision.MuteDuration); err != nil {
			entry.WithError(err).Warn("cant restrict user")
			observability.RecordEnforcementFailure(string(decision.Action))
			enforced = false
		}
	case moderation.ActionDeleteBan:
		if err := bot.BanUserFromChat(ctx, b, user.ID, chat.ID); err != nil {
			entry.WithError(err).Warn("cant ban user")
			observability.RecordEnforcementFailure(string(decision.Action))
			enforced = false
		}
	}

	lang := w.s.GetLanguage(chat.ID, user)
	notice := fmt.Sprintf(i18n.Get(decision.Notice, lang), decision.NoticeArgs...)
	text := fmt.Sprintf("%s: %s", bot.GetUN(user), notice)
	if !enforced {
		// the verdict stands even when the transport refused it, but the
		// chat has to see that enforcement did not land
		text += "\n" + i18n.Get("I lack the rights to enforce this, admins please take a look.", lang)
	}

	msg := api.NewMessage(chat.ID, text)
	msg.DisableNotification = true
	if _, err := b.Send(msg); err != nil {
		entry.WithError(err).Warn("cant send notice")
	}
}

func (w *Watchdog) getLogEntry() *log.Entry {
	return log.WithField("context", "watchdog")
}
