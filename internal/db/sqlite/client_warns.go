package sqlite

import (
	"context"
	"fmt"

	"github.com/iamwavecut/tool"

	"github.com/iamwavecut/guardbot/internal/db"
)

func (c *sqliteClient) UpsertWarn(ctx context.Context, warn *db.Warn) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	query := `
		INSERT INTO warns (chat_id, user_id, count, updated_at)
		VALUES (:chat_id, :user_id, :count, datetime('now'))
		ON CONFLICT(chat_id, user_id) DO UPDATE SET
		count = excluded.count,
		updated_at = excluded.updated_at
	`
	return tool.Err(c.db.NamedExecContext(ctx, query, warn))
}

func (c *sqliteClient) DeleteWarn(ctx context.Context, chatID int64, userID int64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return tool.Err(c.db.ExecContext(ctx, "DELETE FROM warns WHERE chat_id = ? AND user_id = ?", chatID, userID))
}

func (c *sqliteClient) GetAllWarns(ctx context.Context) ([]*db.Warn, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var res []*db.Warn
	err := c.db.SelectContext(ctx, &res, "SELECT chat_id, user_id, count FROM warns")
	if err != nil {
		return nil, fmt.Errorf("select all warns: %w", err)
	}
	return res, nil
}
