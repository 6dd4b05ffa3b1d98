package models

// Sender tags who authored a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Valid reports whether s is a known sender
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderBot
}

// Message represents a chat message for TUI display.
// It only lives in the chat log and is never persisted.
type Message struct {
	Text   string
	Sender Sender
}

// NewUserMessage creates a user-authored message
func NewUserMessage(text string) Message {
	return Message{Text: text, Sender: SenderUser}
}

// NewBotMessage creates a bot-authored message
func NewBotMessage(text string) Message {
	return Message{Text: text, Sender: SenderBot}
}

// IsUser reports whether the message was authored by the user
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}
