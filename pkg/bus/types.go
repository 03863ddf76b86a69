package bus

// InboundMessage is one user message handed from a channel to the dispatch
// core. UpdateID is the channel's ordering/idempotency key; for Telegram it
// is the Bot API update_id.
type InboundMessage struct {
	Channel        string `json:"channel"`
	UpdateID       int64  `json:"update_id"`
	ChatID         int64  `json:"chat_id"`
	SenderID       int64  `json:"sender_id"`
	SenderUsername string `json:"sender_username"`
	SenderIsBot    bool   `json:"sender_is_bot"`
	Content        string `json:"content"`

	// CorrelationID ties log lines for one update together.
	CorrelationID string `json:"correlation_id,omitempty"`
}

// OutboundMessage is one reply on its way back to a channel.
type OutboundMessage struct {
	Channel       string `json:"channel"`
	ChatID        int64  `json:"chat_id"`
	Content       string `json:"content"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
