package handlers

import (
	"context"
	"testing"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/iamwavecut/guardbot/internal/bot"
	"github.com/iamwavecut/guardbot/internal/config"
	"github.com/iamwavecut/guardbot/internal/db"
	"github.com/iamwavecut/guardbot/internal/moderation"
)

// watchdogTestService wires a real engine behind the Service interface.
// The transport is nil: these cases must never reach it.
type watchdogTestService struct {
	enforcer *moderation.Enforcer
}

func (s *watchdogTestService) GetBot() *api.BotAPI                  { return nil }
func (s *watchdogTestService) GetDB() db.Client                     { return nil }
func (s *watchdogTestService) GetEnforcer() *moderation.Enforcer    { return s.enforcer }
func (s *watchdogTestService) GetTerms() *moderation.TermStore      { return nil }
func (s *watchdogTestService) GetGate() *moderation.EntitlementGate { return nil }
func (s *watchdogTestService) GetWarns() *moderation.WarnLedger     { return nil }
func (s *watchdogTestService) GetRoles() *bot.RoleResolver          { return nil }
func (s *watchdogTestService) GetLanguage(int64, *api.User) string  { return "en" }

func newWatchdogTestService() *watchdogTestService {
	policy := config.Policy{WarnLimit: 5, BypassMatchCount: 3, MuteDuration: time.Hour}
	spamCfg := config.Spam{Window: 5 * time.Second, MaxMessages: 6, MuteDuration: 10 * time.Minute}
	terms := moderation.NewTermStore(nil, nil, []string{"anjing"}, nil)
	warns := moderation.NewWarnLedger(nil, policy)
	spam := moderation.NewSpamDetector(spamCfg, nil)
	return &watchdogTestService{
		enforcer: moderation.NewEnforcer(policy, terms, nil, warns, spam),
	}
}

func groupMessage(text string) (*api.Update, *api.Chat, *api.User) {
	chat := &api.Chat{ID: -100, Type: "supergroup"}
	user := &api.User{ID: 7, FirstName: "Test"}
	u := &api.Update{Message: &api.Message{
		MessageID: 1,
		Chat:      *chat,
		From:      user,
		Text:      text,
		Date:      int(time.Now().Unix()),
	}}
	return u, chat, user
}

func TestWatchdogProceedsOnCleanMessage(t *testing.T) {
	t.Parallel()

	w := NewWatchdog(newWatchdogTestService())
	u, chat, user := groupMessage("selamat pagi")

	proceed, err := w.Handle(context.Background(), u, chat, user)
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !proceed {
		t.Fatal("clean message should proceed down the handler chain")
	}
}

func TestWatchdogProceedsOnCommands(t *testing.T) {
	t.Parallel()

	w := NewWatchdog(newWatchdogTestService())
	u, chat, user := groupMessage("/warns")
	u.Message.Entities = []api.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}}

	proceed, err := w.Handle(context.Background(), u, chat, user)
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !proceed {
		t.Fatal("commands are not the watchdog's business")
	}
}

func TestWatchdogIgnoresPrivateChats(t *testing.T) {
	t.Parallel()

	w := NewWatchdog(newWatchdogTestService())
	u, chat, user := groupMessage("anjing")
	chat.Type = "private"
	u.Message.Chat.Type = "private"

	proceed, err := w.Handle(context.Background(), u, chat, user)
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !proceed {
		t.Fatal("private chats are not moderated")
	}
}

func TestWatchdogIgnoresBotAuthors(t *testing.T) {
	t.Parallel()

	w := NewWatchdog(newWatchdogTestService())
	u, chat, user := groupMessage("anjing")
	user.IsBot = true

	proceed, err := w.Handle(context.Background(), u, chat, user)
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !proceed {
		t.Fatal("bot-authored messages must pass through untouched")
	}
}
