package models

import "time"

// Query is one stored prompt/response exchange. Rows are append-only: the
// client never updates a row after creation, only deletes whole chats.
type Query struct {
	ID        string    `gorm:"primaryKey" json:"id"` // UUID
	UserID    string    `gorm:"index" json:"user_id"`
	ModelID   string    `json:"model_id"`
	Prompt    string    `gorm:"type:text" json:"prompt"`
	Response  string    `gorm:"type:text" json:"response"`
	ChatID    string    `gorm:"index" json:"chat_id"` // empty for untagged rows
	CreatedAt time.Time `json:"created_at"`
}
