package handlers

import (
	"context"
	"fmt"
	"strconv"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/guardbot/internal/bot"
	"github.com/iamwavecut/guardbot/internal/config"
	"github.com/iamwavecut/guardbot/internal/i18n"
)

// Premium handles entitlement commands. Granting and revoking is reserved
// for the bot owner; status is open to everyone in the chat.
type Premium struct {
	s bot.Service
}

func NewPremium(s bot.Service) *Premium {
	return &Premium{s: s}
}

func (p *Premium) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (bool, error) {
	if chat == nil || user == nil {
		return true, nil
	}
	switch {
	case
		u.Message == nil,
		user.IsBot,
		!u.Message.IsCommand():
		return true, nil
	}
	m := u.Message
	lang := p.s.GetLanguage(chat.ID, user)

	switch m.Command() {
	case "addpremium":
		if !p.isBotOwner(user) {
			p.reply(chat.ID, i18n.Get("Not enough rights to do that.", lang))
			return false, nil
		}
		days := config.Get().Premium.DefaultGrantDays
		if arg := m.CommandArguments(); arg != "" {
			parsed, err := strconv.Atoi(arg)
			if err != nil || parsed <= 0 {
				p.reply(chat.ID, i18n.Get("That does not look like a number of days.", lang))
				return false, nil
			}
			days = parsed
		}
		p.s.GetGate().Grant(chat.ID, days)
		p.reply(chat.ID, fmt.Sprintf(i18n.Get("Premium granted for %d days.", lang), days))
		return false, nil

	case "delpremium":
		if !p.isBotOwner(user) {
			p.reply(chat.ID, i18n.Get("Not enough rights to do that.", lang))
			return false, nil
		}
		if err := p.s.GetGate().Revoke(chat.ID); err != nil {
			p.reply(chat.ID, i18n.Get("This group is not premium.", lang))
			return false, nil
		}
		p.reply(chat.ID, i18n.Get("Premium revoked.", lang))
		return false, nil

	case "premstatus":
		status := p.s.GetGate().Status(chat.ID)
		if !status.Active {
			p.reply(chat.ID, i18n.Get("This group is not premium.", lang))
			return false, nil
		}
		p.reply(chat.ID, fmt.Sprintf(
			i18n.Get("Premium active until %s (%d days left).", lang),
			status.ExpiresAt.Format("2006-01-02"),
			status.RemainingDays,
		))
		return false, nil
	}
	return true, nil
}

func (p *Premium) isBotOwner(user *api.User) bool {
	ownerID := config.Get().OwnerID
	return ownerID != 0 && user.ID == ownerID
}

func (p *Premium) reply(chatID int64, text string) {
	msg := api.NewMessage(chatID, text)
	msg.DisableNotification = true
	if _, err := p.s.GetBot().Send(msg); err != nil {
		p.getLogEntry().WithError(err).Warn("cant send reply")
	}
}

func (p *Premium) getLogEntry() *log.Entry {
	return log.WithField("context", "premium")
}
