package bot

import (
	"context"
	"fmt"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	cache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Role int

const (
	RoleMember Role = iota
	RoleModerator
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleModerator:
		return "moderator"
	default:
		return "member"
	}
}

const roleCacheTTL = 5 * time.Minute

// RoleResolver maps chat member status onto the Role enum, caching lookups
// so command bursts do not hammer the API.
type RoleResolver struct {
	bot   *api.BotAPI
	cache *cache.Cache
}

func NewRoleResolver(botAPI *api.BotAPI) *RoleResolver {
	return &RoleResolver{
		bot:   botAPI,
		cache: cache.New(roleCacheTTL, 10*time.Minute),
	}
}

func (r *RoleResolver) Resolve(ctx context.Context, chatID, userID int64) (Role, error) {
	key := fmt.Sprintf("%d:%d", chatID, userID)
	if cached, ok := r.cache.Get(key); ok {
		return cached.(Role), nil
	}

	select {
	case <-ctx.Done():
		return RoleMember, ctx.Err()
	default:
	}

	member, err := r.bot.GetChatMember(api.GetChatMemberConfig{
		ChatConfigWithUser: api.ChatConfigWithUser{
			ChatConfig: api.ChatConfig{ChatID: chatID},
			UserID:     userID,
		},
	})
	if err != nil {
		return RoleMember, errors.WithMessage(err, "cant get chat member")
	}

	role := RoleMember
	switch {
	case member.IsCreator():
		role = RoleOwner
	case member.IsAdministrator():
		role = RoleModerator
	}
	r.cache.Set(key, role, cache.DefaultExpiration)
	return role, nil
}

// IsModerator reports whether the user holds RoleModerator or above.
// Lookup failures degrade to member, the safe answer for gating.
func (r *RoleResolver) IsModerator(ctx context.Context, chatID, userID int64) bool {
	role, err := r.Resolve(ctx, chatID, userID)
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Debug("role lookup failed")
		return false
	}
	return role >= RoleModerator
}

// Invalidate drops cached roles for a chat, used by /reload.
func (r *RoleResolver) Invalidate(chatID int64) {
	prefix := fmt.Sprintf("%d:", chatID)
	for key := range r.cache.Items() {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			r.cache.Delete(key)
		}
	}
}
