// Package history rebuilds conversation threads from flat stored message rows.
// Grouping is deterministic: the same input rows, in any order, produce the
// same conversations in the same order.
package history

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// gapThreshold splits untagged rows into separate conversations when the time
// between consecutive prompt rows exceeds it.
const gapThreshold = 30 * time.Minute

const titleWordLimit = 5

// conversationNamespace seeds deterministic IDs for conversations rebuilt
// from untagged rows.
var conversationNamespace = uuid.MustParse("8f3c1de2-5b7a-4a29-9c93-2b6f0d6a7c41")

// Row is one persisted prompt/response record as returned by the store.
type Row struct {
	UserID    string
	ModelID   string
	Prompt    string
	Response  string // empty means the exchange has no stored response
	ThreadID  string // empty means untagged, grouped by time gap
	CreatedAt time.Time
}

// Message is one side of an exchange inside a rebuilt conversation.
type Message struct {
	Role      string    `json:"role"` // "user" or "bot"
	Content   string    `json:"content"`
	ModelID   string    `json:"model_id,omitempty"` // bot messages only
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is a rebuilt, ordered thread. It is a view over rows and is
// never persisted.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `json:"messages"`
}

// Group rebuilds conversations from rows, newest first.
//
// Rows carrying a thread ID are grouped strictly by that ID and are never
// subject to time-gap splitting. Untagged rows are sorted by time and walked
// as prompt/response pairs, starting a new conversation whenever the gap
// between consecutive prompt rows exceeds 30 minutes; a trailing unpaired row
// is dropped. Conversations with no messages or an empty title are discarded.
func Group(rows []Row) []Conversation {
	if len(rows) == 0 {
		return []Conversation{}
	}

	var tagged []Row
	var untagged []Row
	for _, row := range rows {
		if row.ThreadID != "" {
			tagged = append(tagged, row)
		} else {
			untagged = append(untagged, row)
		}
	}

	conversations := groupThreaded(tagged)
	conversations = append(conversations, groupByTimeGap(untagged)...)

	sort.SliceStable(conversations, func(i, j int) bool {
		if !conversations[i].CreatedAt.Equal(conversations[j].CreatedAt) {
			return conversations[i].CreatedAt.After(conversations[j].CreatedAt)
		}
		return conversations[i].ID < conversations[j].ID
	})
	return conversations
}

func groupThreaded(rows []Row) []Conversation {
	byThread := make(map[string][]Row)
	for _, row := range rows {
		byThread[row.ThreadID] = append(byThread[row.ThreadID], row)
	}

	conversations := make([]Conversation, 0, len(byThread))
	for threadID, group := range byThread {
		sortRowsAscending(group)

		conv := Conversation{
			ID:        threadID,
			Title:     deriveTitle(group[0].Prompt),
			CreatedAt: group[0].CreatedAt,
		}
		for _, row := range group {
			conv.Messages = append(conv.Messages, Message{
				Role:      "user",
				Content:   row.Prompt,
				Timestamp: row.CreatedAt,
			})
			if row.Response != "" {
				conv.Messages = append(conv.Messages, Message{
					Role:      "bot",
					Content:   row.Response,
					ModelID:   row.ModelID,
					Timestamp: row.CreatedAt,
				})
			}
		}
		if len(conv.Messages) == 0 || conv.Title == "" {
			continue
		}
		conversations = append(conversations, conv)
	}
	return conversations
}

func groupByTimeGap(rows []Row) []Conversation {
	if len(rows) == 0 {
		return nil
	}
	sortRowsAscending(rows)

	var conversations []Conversation
	var current *Conversation
	var lastPromptAt time.Time

	flush := func() {
		if current != nil && len(current.Messages) > 0 && current.Title != "" {
			conversations = append(conversations, *current)
		}
		current = nil
	}

	for i := 0; i+1 < len(rows); i += 2 {
		promptRow := rows[i]
		responseRow := rows[i+1]

		if current == nil || promptRow.CreatedAt.Sub(lastPromptAt) > gapThreshold {
			flush()
			current = &Conversation{
				ID:        untaggedID(promptRow),
				Title:     deriveTitle(promptRow.Prompt),
				CreatedAt: promptRow.CreatedAt,
			}
		}

		current.Messages = append(current.Messages,
			Message{
				Role:      "user",
				Content:   promptRow.Prompt,
				Timestamp: promptRow.CreatedAt,
			},
			Message{
				Role:      "bot",
				Content:   responseRow.Response,
				ModelID:   responseRow.ModelID,
				Timestamp: responseRow.CreatedAt,
			},
		)
		lastPromptAt = promptRow.CreatedAt
	}
	flush()

	return conversations
}

// deriveTitle keeps the first five whitespace-separated words of the prompt,
// appending an ellipsis when the prompt was longer.
func deriveTitle(prompt string) string {
	words := strings.Fields(prompt)
	if len(words) <= titleWordLimit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:titleWordLimit], " ") + "..."
}

// untaggedID derives a stable conversation ID from the opening row, so
// repeated grouping of the same history yields identical output.
func untaggedID(row Row) string {
	seed := fmt.Sprintf("%d:%s", row.CreatedAt.UnixNano(), row.Prompt)
	return uuid.NewSHA1(conversationNamespace, []byte(seed)).String()
}

func sortRowsAscending(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].Prompt < rows[j].Prompt
	})
}
