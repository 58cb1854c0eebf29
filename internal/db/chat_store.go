package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/loftylabs/lofty/internal/db/models"
	"github.com/loftylabs/lofty/internal/history"
	"gorm.io/gorm"
)

// DefaultHistoryLimit caps history queries when the caller passes no limit.
const DefaultHistoryLimit = 100

// ChatStore persists prompt/response exchanges for the conversation view.
// It is the client-side adapter over the remote record store; errors are
// surfaced to the caller and never retried here.
type ChatStore struct {
	db *gorm.DB
}

// NewChatStore wraps an initialized database handle.
func NewChatStore(db *gorm.DB) *ChatStore {
	return &ChatStore{db: db}
}

// SaveMessage appends one exchange. chatID may be empty for untagged rows.
func (s *ChatStore) SaveMessage(userID, modelID, prompt, response, chatID string) error {
	if userID == "" {
		return fmt.Errorf("user not authenticated")
	}

	row := models.Query{
		ID:        uuid.NewString(),
		UserID:    userID,
		ModelID:   modelID,
		Prompt:    prompt,
		Response:  response,
		ChatID:    chatID,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// History returns the newest rows for a user, mapped to grouper input.
func (s *ChatStore) History(userID string, limit int) ([]history.Row, error) {
	if userID == "" {
		return nil, fmt.Errorf("user not authenticated")
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	var rows []models.Query
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	result := make([]history.Row, 0, len(rows))
	for _, row := range rows {
		result = append(result, history.Row{
			UserID:    row.UserID,
			ModelID:   row.ModelID,
			Prompt:    row.Prompt,
			Response:  row.Response,
			ThreadID:  row.ChatID,
			CreatedAt: row.CreatedAt,
		})
	}
	return result, nil
}

// DeleteChat removes every row of one chat for a user.
func (s *ChatStore) DeleteChat(userID, chatID string) error {
	if userID == "" {
		return fmt.Errorf("user not authenticated")
	}
	if chatID == "" {
		return fmt.Errorf("chat id is required")
	}
	if err := s.db.Where("user_id = ? AND chat_id = ?", userID, chatID).Delete(&models.Query{}).Error; err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	return nil
}

// DeleteAll wipes a user's entire history.
func (s *ChatStore) DeleteAll(userID string) error {
	if userID == "" {
		return fmt.Errorf("user not authenticated")
	}
	if err := s.db.Where("user_id = ?", userID).Delete(&models.Query{}).Error; err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	return nil
}
