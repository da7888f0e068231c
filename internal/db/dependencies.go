package db

import "context"

type Client interface {
	Close() error

	InsertChatTerm(ctx context.Context, chatID int64, term string) error
	DeleteChatTerm(ctx context.Context, chatID int64, term string) error
	GetChatTerms(ctx context.Context, chatID int64) ([]string, error)
	GetAllChatTerms(ctx context.Context) (map[int64][]string, error)

	UpsertEntitlement(ctx context.Context, entitlement *Entitlement) error
	GetEntitlement(ctx context.Context, chatID int64) (*Entitlement, error)
	DeleteEntitlement(ctx context.Context, chatID int64) error
	GetAllEntitlements(ctx context.Context) ([]*Entitlement, error)

	UpsertWarn(ctx context.Context, warn *Warn) error
	DeleteWarn(ctx context.Context, chatID int64, userID int64) error
	GetAllWarns(ctx context.Context) ([]*Warn, error)
}
