package messages

import "time"

// Message is an ingested channel post. MessageID is the external Telegram
// message id and is the deduplication key; a message with a given MessageID
// is persisted at most once no matter how many ingestion runs observe it.
type Message struct {
	ID              int64     `json:"id"`
	MessageID       int64     `json:"messageId"`
	Text            string    `json:"text"`
	ChannelUsername string    `json:"channelUsername"`
	MessageDate     time.Time `json:"messageDate"`
	CreatedAt       time.Time `json:"createdAt"`
}
