package bot

import (
	"context"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/iamwavecut/guardbot/internal/db"
	"github.com/iamwavecut/guardbot/internal/moderation"
)

// ServiceBot defines bot-specific operations
type ServiceBot interface {
	GetBot() *api.BotAPI
}

// ServiceDB defines database-specific operations
type ServiceDB interface {
	GetDB() db.Client
}

// Service is the dependency hub handlers are wired with.
type Service interface {
	ServiceBot
	ServiceDB
	GetEnforcer() *moderation.Enforcer
	GetTerms() *moderation.TermStore
	GetGate() *moderation.EntitlementGate
	GetWarns() *moderation.WarnLedger
	GetRoles() *RoleResolver
	GetLanguage(chatID int64, user *api.User) string
}

// Handler defines the interface for all update handlers in the system
type Handler interface {
	Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (proceed bool, err error)
}
