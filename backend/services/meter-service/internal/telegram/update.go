// Package telegram handles the Bot API: inbound webhook updates, the reading
// message grammar, reply formatting and the outbound client.
package telegram

// Update is the subset of a Telegram webhook update the service reads.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message is an incoming chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text,omitempty"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// ChatID returns the chat of the update's message, or zero.
func (u Update) ChatID() int64 {
	if u.Message == nil {
		return 0
	}
	return u.Message.Chat.ID
}

// Text returns the message text, or an empty string.
func (u Update) Text() string {
	if u.Message == nil {
		return ""
	}
	return u.Message.Text
}
