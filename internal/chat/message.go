package chat

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one transcript entry.
type Message struct {
	ID        string `json:"id"`
	Sender    Sender `json:"sender"`
	Content   string `json:"content"`   // markdown source
	HTML      string `json:"html"`      // rendered content
	Timestamp int64  `json:"timestamp"` // unix timestamp in milliseconds
}

// NewMessage creates a message stamped with the current time.
func NewMessage(sender Sender, content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Content:   content,
		HTML:      Render(content),
		Timestamp: time.Now().UnixMilli(),
	}
}
