package handlers

import (
	"context"
	"fmt"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/guardbot/internal/bot"
	"github.com/iamwavecut/guardbot/internal/i18n"
)

const (
	callbackMain     = "menu_main"
	callbackHelp     = "menu_help"
	callbackCommands = "menu_commands"
	callbackPremium  = "menu_premium"
	callbackOwner    = "menu_owner"
)

const commandsHelp = `/warns - show your warning count
/info - your status in this chat
/staff - list chat admins
/addword, /delword, /listwords - manage blocked terms (admins)
/ban, /unban, /mute, /unmute, /kick - reply-targeted moderation (admins)
/resetwarns - clear warnings, reply-targeted (admins)
/premstatus - premium status of this chat`

// Menu renders the inline navigation: /start, /help and the callback
// panels behind them.
type Menu struct {
	s bot.Service
}

func NewMenu(s bot.Service) *Menu {
	return &Menu{s: s}
}

func (h *Menu) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (bool, error) {
	if u.CallbackQuery != nil {
		return h.handleCallback(u.CallbackQuery, user)
	}
	if chat == nil || user == nil || u.Message == nil || !u.Message.IsCommand() {
		return true, nil
	}
	lang := h.s.GetLanguage(chat.ID, user)

	switch u.Message.Command() {
	case "start":
		msg := api.NewMessage(chat.ID, fmt.Sprintf("🏠 %s", i18n.Get("Main menu", lang)))
		msg.ReplyMarkup = h.mainMenu(lang)
		_, err := h.s.GetBot().Send(msg)
		return false, err
	case "help":
		msg := api.NewMessage(chat.ID, i18n.Get(commandsHelp, lang))
		_, err := h.s.GetBot().Send(msg)
		return false, err
	}
	return true, nil
}

func (h *Menu) handleCallback(q *api.CallbackQuery, user *api.User) (bool, error) {
	b := h.s.GetBot()
	if _, err := b.Request(api.NewCallback(q.ID, "")); err != nil {
		h.getLogEntry().WithError(err).Debug("cant answer callback")
	}
	if q.Message == nil {
		return false, nil
	}
	chatID := q.Message.Chat.ID
	lang := h.s.GetLanguage(chatID, user)

	var text string
	var markup api.InlineKeyboardMarkup
	switch q.Data {
	case callbackMain:
		text = fmt.Sprintf("🏠 %s", i18n.Get("Main menu", lang))
		markup = h.mainMenu(lang)
	case callbackHelp:
		text = "🆘 " + i18n.Get("Help", lang)
		markup = api.NewInlineKeyboardMarkup(
			api.NewInlineKeyboardRow(api.NewInlineKeyboardButtonData("📖 "+i18n.Get("Commands", lang), callbackCommands)),
			h.backRow(lang),
		)
	case callbackCommands:
		text = i18n.Get(commandsHelp, lang)
		markup = api.NewInlineKeyboardMarkup(h.backRow(lang))
	case callbackPremium:
		status := h.s.GetGate().Status(chatID)
		if status.Active {
			text = "⭐ " + fmt.Sprintf(
				i18n.Get("Premium active until %s (%d days left).", lang),
				status.ExpiresAt.Format("2006-01-02"),
				status.RemainingDays,
			)
		} else {
			text = "⭐ " + i18n.Get("This group is not premium.", lang)
		}
		markup = api.NewInlineKeyboardMarkup(h.backRow(lang))
	case callbackOwner:
		text = "👑 " + i18n.Get("Owner panel", lang) + "\n/addpremium <days>, /delpremium"
		markup = api.NewInlineKeyboardMarkup(h.backRow(lang))
	default:
		return false, nil
	}

	edit := api.NewEditMessageText(chatID, q.Message.MessageID, text)
	edit.ReplyMarkup = &markup
	if _, err := b.Send(edit); err != nil {
		h.getLogEntry().WithError(err).Warn("cant edit menu message")
	}
	return false, nil
}

func (h *Menu) mainMenu(lang string) api.InlineKeyboardMarkup {
	return api.NewInlineKeyboardMarkup(
		api.NewInlineKeyboardRow(api.NewInlineKeyboardButtonData("🆘 "+i18n.Get("Help", lang), callbackHelp)),
		api.NewInlineKeyboardRow(api.NewInlineKeyboardButtonData("⭐ "+i18n.Get("Premium", lang), callbackPremium)),
		api.NewInlineKeyboardRow(api.NewInlineKeyboardButtonData("👑 "+i18n.Get("Owner panel", lang), callbackOwner)),
	)
}

func (h *Menu) backRow(lang string) []api.InlineKeyboardButton {
	return api.NewInlineKeyboardRow(api.NewInlineKeyboardButtonData("⬅️ "+i18n.Get("Back", lang), callbackMain))
}

func (h *Menu) getLogEntry() *log.Entry {
	return log.WithField("context", "menu")
}
