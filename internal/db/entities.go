package db

import "time"

type (
	ChatTerm struct {
		ChatID    int64     `db:"chat_id"`
		Term      string    `db:"term"`
		CreatedAt time.Time `db:"created_at"`
	}

	Entitlement struct {
		ChatID    int64     `db:"chat_id"`
		ExpiresAt time.Time `db:"expires_at"`
	}

	Warn struct {
		ChatID    int64     `db:"chat_id"`
		UserID    int64     `db:"user_id"`
		Count     int       `db:"count"`
		UpdatedAt time.Time `db:"updated_at"`
	}
)
