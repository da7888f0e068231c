package sqlite

import (
	"context"
	"fmt"

	"github.com/iamwavecut/tool"

	"github.com/iamwavecut/guardbot/internal/db"
)

func (c *sqliteClient) InsertChatTerm(ctx context.Context, chatID int64, term string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, err := c.db.ExecContext(ctx, "INSERT OR IGNORE INTO chat_terms (chat_id, term) VALUES (?, ?)", chatID, term)
	if err != nil {
		return fmt.Errorf("insert chat term: %w", err)
	}
	return nil
}

func (c *sqliteClient) DeleteChatTerm(ctx context.Context, chatID int64, term string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return tool.Err(c.db.ExecContext(ctx, "DELETE FROM chat_terms WHERE chat_id = ? AND term = ?", chatID, term))
}

func (c *sqliteClient) GetChatTerms(ctx context.Context, chatID int64) ([]string, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var terms []string
	err := c.db.SelectContext(ctx, &terms, "SELECT term FROM chat_terms WHERE chat_id = ? ORDER BY term", chatID)
	if err != nil {
		return nil, fmt.Errorf("select chat terms: %w", err)
	}
	return terms, nil
}

func (c *sqliteClient) GetAllChatTerms(ctx context.Context) (map[int64][]string, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var rows []db.ChatTerm
	err := c.db.SelectContext(ctx, &rows, "SELECT chat_id, term FROM chat_terms ORDER BY chat_id, term")
	if err != nil {
		return nil, fmt.Errorf("select all chat terms: %w", err)
	}
	res := make(map[int64][]string)
	for _, row := range rows {
		res[row.ChatID] = append(res[row.ChatID], row.Term)
	}
	return res, nil
}
