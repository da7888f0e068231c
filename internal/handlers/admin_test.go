package handlers

import (
	"testing"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/iamwavecut/guardbot/internal/bot"
	"github.com/iamwavecut/guardbot/internal/config"
	"github.com/iamwavecut/guardbot/internal/db"
	"github.com/iamwavecut/guardbot/internal/moderation"
)

// adminTestService backs the command handler with real engine state and a
// nil transport: these cases only exercise text rendering.
type adminTestService struct {
	enforcer *moderation.Enforcer
	gate     *moderation.EntitlementGate
	warns    *moderation.WarnLedger
}

func (s *adminTestService) GetBot() *api.BotAPI                  { return nil }
func (s *adminTestService) GetDB() db.Client                     { return nil }
func (s *adminTestService) GetEnforcer() *moderation.Enforcer    { return s.enforcer }
func (s *adminTestService) GetTerms() *moderation.TermStore      { return nil }
func (s *adminTestService) GetGate() *moderation.EntitlementGate { return s.gate }
func (s *adminTestService) GetWarns() *moderation.WarnLedger     { return s.warns }
func (s *adminTestService) GetRoles() *bot.RoleResolver          { return nil }
func (s *adminTestService) GetLanguage(int64, *api.User) string  { return "en" }

func newAdminTestService() *adminTestService {
	policy := config.Policy{WarnLimit: 5, BypassMatchCount: 3, MuteDuration: time.Hour}
	gate := moderation.NewEntitlementGate(nil, nil)
	terms := moderation.NewTermStore(nil, gate, []string{"anjing"}, nil)
	warns := moderation.NewWarnLedger(nil, policy)
	spam := moderation.NewSpamDetector(config.Spam{Window: 5 * time.Second, MaxMessages: 6}, nil)
	return &adminTestService{
		enforcer: moderation.NewEnforcer(policy, terms, gate, warns, spam),
		gate:     gate,
		warns:    warns,
	}
}

func TestAdminInfoText(t *testing.T) {
	t.Parallel()

	s := newAdminTestService()
	a := NewAdmin(s)

	s.warns.Record(1, 100, 1)
	s.warns.Record(1, 100, 1)

	got := a.infoText(1, 100, "en")
	want := "You have 2/5 warnings.\nThis group is not premium."
	if got != want {
		t.Fatalf("infoText = %q, want %q", got, want)
	}

	s.gate.Grant(1, 30)
	got = a.infoText(1, 100, "en")
	want = "You have 2/5 warnings.\nThis group is premium."
	if got != want {
		t.Fatalf("infoText after grant = %q, want %q", got, want)
	}
}
