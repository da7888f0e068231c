package handlers

import (
	"context"
	"fmt"
	"strings"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/guardbot/internal/bot"
	errs "github.com/iamwavecut/guardbot/internal/errors"
	"github.com/iamwavecut/guardbot/internal/i18n"
)

// Admin handles the moderation-administration command set. Authorization
// happens here, at the dispatch layer: the engine itself never checks
// roles.
type Admin struct {
	s bot.Service
}

func NewAdmin(s bot.Service) *Admin {
	return &Admin{s: s}
}

func (a *Admin) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (bool, error) {
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
	lang := a.s.GetLanguage(chat.ID, user)
	entry := a.getLogEntry().WithField("command", m.Command())

	switch m.Command() {
	case "addword":
		if !a.requireModerator(ctx, chat, user, lang) {
			return false, nil
		}
		return a.addWord(ctx, chat, m, lang)
	case "delword":
		if !a.requireModerator(ctx, chat, user, lang) {
			return false, nil
		}
		return a.delWord(ctx, chat, m, lang)
	case "listwords":
		if !a.requireModerator(ctx, chat, user, lang) {
			return false, nil
		}
		return a.listWords(chat, lang)
	case "resetwarns":
		if !a.requireModerator(ctx, chat, user, lang) {
			return false, nil
		}
		return a.resetWarns(chat, m, lang)
	case "warns":
		count := a.s.GetWarns().Count(chat.ID, user.ID)
		limit := a.warnLimit()
		a.reply(chat.ID, fmt.Sprintf(i18n.Get("You have %d/%d warnings.", lang), count, limit))
		return false, nil
	case "ban", "unban", "mute", "unmute", "kick":
		if !a.requireModerator(ctx, chat, user, lang) {
			return false, nil
		}
		return a.restrictCommand(ctx, m.Command(), chat, m, lang)
	case "reload":
		if !a.requireModerator(ctx, chat, user, lang) {
			return false, nil
		}
		a.s.GetRoles().Invalidate(chat.ID)
		a.reply(chat.ID, i18n.Get("Done.", lang))
		return false, nil
	case "staff":
		return a.staff(ctx, chat, lang)
	case "info":
		a.reply(chat.ID, a.infoText(chat.ID, user.ID, lang))
		return false, nil
	case "infopvt":
		a.sendPrivate(chat.ID, user.ID, a.infoText(chat.ID, user.ID, lang), lang)
		return false, nil
	default:
		entry.Trace("unknown command")
		return true, nil
	}
}

func (a *Admin) addWord(ctx context.Context, chat *api.Chat, m *api.Message, lang string) (bool, error) {
	term, added, err := a.s.GetTerms().AddCustomTerm(ctx, chat.ID, m.CommandArguments())
	switch {
	case errors.Is(err, errs.ErrInvalidTerm):
		a.reply(chat.ID, i18n.Get("That does not look like a valid term.", lang))
	case err != nil:
		return false, errors.WithMessage(err, "cant add term")
	case !added:
		a.reply(chat.ID, i18n.Get("Term already in the list.", lang))
	default:
		a.getLogEntry().WithFields(log.Fields{"chat_id": chat.ID, "term": term}).Info("custom term added")
		a.reply(chat.ID, i18n.Get("Term added.", lang))
	}
	return false, nil
}

func (a *Admin) delWord(ctx context.Context, chat *api.Chat, m *api.Message, lang string) (bool, error) {
	err := a.s.GetTerms().RemoveCustomTerm(ctx, chat.ID, m.CommandArguments())
	switch {
	case errors.Is(err, errs.ErrTermNotFound), errors.Is(err, errs.ErrInvalidTerm):
		a.reply(chat.ID, i18n.Get("Term is not in the list.", lang))
	case err != nil:
		return false, errors.WithMessage(err, "cant remove term")
	default:
		a.reply(chat.ID, i18n.Get("Term removed.", lang))
	}
	return false, nil
}

func (a *Admin) listWords(chat *api.Chat, lang string) (bool, error) {
	terms := a.s.GetTerms().ListCustomTerms(chat.ID)
	if len(terms) == 0 {
		a.reply(chat.ID, i18n.Get("No custom terms yet.", lang))
		return false, nil
	}
	a.reply(chat.ID, strings.Join(terms, ", "))
	return false, nil
}

func (a *Admin) resetWarns(chat *api.Chat, m *api.Message, lang string) (bool, error) {
	target := replyTarget(m)
	if target == nil {
		a.reply(chat.ID, i18n.Get("This command must be a reply to a message.", lang))
		return false, nil
	}
	a.s.GetWarns().Reset(chat.ID, target.ID)
	a.reply(chat.ID, i18n.Get("Warnings reset.", lang))
	return false, nil
}

func (a *Admin) restrictCommand(ctx context.Context, command string, chat *api.Chat, m *api.Message, lang string) (bool, error) {
	target := replyTarget(m)
	if target == nil {
		a.reply(chat.ID, i18n.Get("This command must be a reply to a message.", lang))
		return false, nil
	}
	b := a.s.GetBot()

	var err error
	switch command {
	case "ban":
		err = bot.BanUserFromChat(ctx, b, target.ID, chat.ID)
	case "unban":
		err = bot.UnbanUserFromChat(ctx, b, target.ID, chat.ID)
	case "mute":
		err = bot.RestrictChatting(ctx, b, target.ID, chat.ID, 0)
	case "unmute":
		err = bot.UnrestrictChatting(ctx, b, target.ID, chat.ID)
	case "kick":
		if err = bot.BanUserFromChat(ctx, b, target.ID, chat.ID); err == nil {
			err = bot.UnbanUserFromChat(ctx, b, target.ID, chat.ID)
		}
	}
	if err != nil {
		a.getLogEntry().WithError(err).WithField("command", command).Warn("restrict command failed")
		a.reply(chat.ID, i18n.Get("Not enough rights to do that.", lang))
		return false, nil
	}
	a.reply(chat.ID, i18n.Get("Done.", lang))
	return false, nil
}

func (a *Admin) staff(ctx context.Context, chat *api.Chat, lang string) (bool, error) {
	admins, err := a.s.GetBot().GetChatAdministrators(api.ChatAdministratorsConfig{
		ChatConfig: api.ChatConfig{ChatID: chat.ID},
	})
	if err != nil {
		return false, errors.WithMessage(err, "cant get chat administrators")
	}
	names := make([]string, 0, len(admins))
	for _, admin := range admins {
		if admin.User == nil || admin.User.IsBot {
			continue
		}
		names = append(names, bot.GetUN(admin.User))
	}
	a.reply(chat.ID, strings.Join(names, "\n"))
	return false, nil
}

func (a *Admin) requireModerator(ctx context.Context, chat *api.Chat, user *api.User, lang string) bool {
	if a.s.GetRoles().IsModerator(ctx, chat.ID, user.ID) {
		return true
	}
	a.getLogEntry().WithError(errs.ErrNoPrivileges).
		WithField("chat_id", chat.ID).
		WithField("user_id", user.ID).
		Debug("command denied")
	a.reply(chat.ID, i18n.Get("Not enough rights to do that.", lang))
	return false
}

func (a *Admin) infoText(chatID, userID int64, lang string) string {
	count := a.s.GetWarns().Count(chatID, userID)
	premium := i18n.Get("This group is not premium.", lang)
	if a.s.GetGate().Status(chatID).Active {
		premium = i18n.Get("This group is premium.", lang)
	}
	return fmt.Sprintf("%s\n%s", fmt.Sprintf(i18n.Get("You have %d/%d warnings.", lang), count, a.warnLimit()), premium)
}

// sendPrivate delivers text to the user's private chat. Telegram rejects
// the send when the user never started the bot; the group gets a hint
// instead of the info leaking there.
func (a *Admin) sendPrivate(chatID, userID int64, text, lang string) {
	msg := api.NewMessage(userID, text)
	if _, err := a.s.GetBot().Send(msg); err != nil {
		a.getLogEntry().WithError(err).Debug("cant send private message")
		a.reply(chatID, i18n.Get("I can't message you privately, start me in private first.", lang))
	}
}

func (a *Admin) warnLimit() int {
	return a.s.GetEnforcer().WarnLimit()
}

func (a *Admin) reply(chatID int64, text string) {
	msg := api.NewMessage(chatID, text)
	msg.DisableNotification = true
	if _, err := a.s.GetBot().Send(msg); err != nil {
		a.getLogEntry().WithError(err).Warn("cant send reply")
	}
}

func replyTarget(m *api.Message) *api.User {
	if m.ReplyToMessage == nil {
		return nil
	}
	return m.ReplyToMessage.From
}

func (a *Admin) getLogEntry() *log.Entry {
	return log.WithField("context", "admin")
}
