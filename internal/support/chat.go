package support

import (
	"math/rand"
	"strings"
	"time"

	"signage-portal/internal/models"

	"github.com/google/uuid"
)

// Greeting opens every chat transcript
const Greeting = "Hi there! Welcome to MTN High Sign support. How can I help you today?"

// CannedReplies are the agent's stock answers
var CannedReplies = []string{
	"Thanks for your message! I'll help you with that.",
	"I understand your concern. Let me look into that for you.",
	"That's a great question! Here's what I can tell you...",
	"I'll connect you with the right team member to assist you further.",
}

// Responder picks the agent's answer to a customer message
type Responder func(text string) string

// RandomReply answers with a random canned reply
func RandomReply(string) string {
	return CannedReplies[rand.Intn(len(CannedReplies))]
}

// Chat is one session's support transcript. It is not safe for concurrent use.
type Chat struct {
	messages []models.ChatMessage
	reply    Responder
	now      func() time.Time
}

// NewChat starts a transcript with the greeting. A nil responder uses RandomReply.
func NewChat(reply Responder) *Chat {
	if reply == nil {
		reply = RandomReply
	}
	c := &Chat{reply: reply, now: time.Now}
	c.messages = append(c.messages, models.ChatMessage{
		ID:        uuid.New().String(),
		Text:      Greeting,
		Sender:    models.SenderAgent,
		Timestamp: c.now(),
		Status:    models.MessageStatusRead,
	})
	return c
}

// Send records a customer message and the agent's reply, returning both.
// Blank input is ignored and reports false.
func (c *Chat) Send(text string) ([]models.ChatMessage, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	sent := models.ChatMessage{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    models.SenderUser,
		Timestamp: c.now(),
		Status:    models.MessageStatusSent,
	}
	answer := models.ChatMessage{
		ID:        uuid.New().String(),
		Text:      c.reply(text),
		Sender:    models.SenderAgent,
		Timestamp: c.now(),
		Status:    models.MessageStatusRead,
	}

	c.messages = append(c.messages, sent, answer)
	return []models.ChatMessage{sent, answer}, true
}

// Messages returns the transcript, oldest first
func (c *Chat) Messages() []models.ChatMessage {
	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages in the transcript
func (c *Chat) Len() int {
	return len(c.messages)
}
