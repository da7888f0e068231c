package bot

import (
	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/iamwavecut/guardbot/internal/config"
	"github.com/iamwavecut/guardbot/internal/db"
	"github.com/iamwavecut/guardbot/internal/moderation"
)

type service struct {
	bot      *api.BotAPI
	db       db.Client
	enforcer *moderation.Enforcer
	terms    *moderation.TermStore
	gate     *moderation.EntitlementGate
	warns    *moderation.WarnLedger
	roles    *RoleResolver
}

func NewService(
	botAPI *api.BotAPI,
	dbClient db.Client,
	enforcer *moderation.Enforcer,
	terms *moderation.TermStore,
	gate *moderation.EntitlementGate,
	warns *moderation.WarnLedger,
	roles *RoleResolver,
) *service {
	return &service{
		bot:      botAPI,
		db:       dbClient,
		enforcer: enforcer,
		terms:    terms,
		gate:     gate,
		warns:    warns,
		roles:    roles,
	}
}

func (s *service) GetBot() *api.BotAPI {
	return s.bot
}

func (s *service) GetDB() db.Client {
	return s.db
}

func (s *service) GetEnforcer() *moderation.Enforcer {
	return s.enforcer
}

func (s *service) GetTerms() *moderation.TermStore {
	return s.terms
}

func (s *service) GetGate() *moderation.EntitlementGate {
	return s.gate
}

func (s *service) GetWarns() *moderation.WarnLedger {
	return s.warns
}

func (s *service) GetRoles() *RoleResolver {
	return s.roles
}

// GetLanguage picks the user's language code when it is one we ship
// translations for, else the configured default.
func (s *service) GetLanguage(chatID int64, user *api.User) string {
	if user != nil && user.LanguageCode == "id" {
		return "id"
	}
	return config.Get().DefaultLanguage
}
