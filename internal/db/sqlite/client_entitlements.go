package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iamwavecut/tool"

	"github.com/iamwavecut/guardbot/internal/db"
)

func (c *sqliteClient) UpsertEntitlement(ctx context.Context, entitlement *db.Entitlement) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	query := `
		INSERT INTO entitlements (chat_id, expires_at)
		VALUES (:chat_id, :expires_at)
		ON CONFLICT(chat_id) DO UPDATE SET
		expires_at = excluded.expires_at
	`
	return tool.Err(c.db.NamedExecContext(ctx, query, entitlement))
}

func (c *sqliteClient) GetEntitlement(ctx context.Context, chatID int64) (*db.Entitlement, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	res := &db.Entitlement{}
	err := c.db.GetContext(ctx, res, "SELECT chat_id, expires_at FROM entitlements WHERE chat_id = ?", chatID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("select entitlement: %w", err)
	}
	return res, nil
}

func (c *sqliteClient) DeleteEntitlement(ctx context.Context, chatID int64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return tool.Err(c.db.ExecContext(ctx, "DELETE FROM entitlements WHERE chat_id = ?", chatID))
}

func (c *sqliteClient) GetAllEntitlements(ctx context.Context) ([]*db.Entitlement, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var res []*db.Entitlement
	err := c.db.SelectContext(ctx, &res, "SELECT chat_id, expires_at FROM entitlements")
	if err != nil {
		return nil, fmt.Errorf("select all entitlements: %w", err)
	}
	return res, nil
}
