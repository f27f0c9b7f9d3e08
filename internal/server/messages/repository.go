package messages

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, msg *Message) (*Message, error)
	GetByMessageID(ctx context.Context, messageID int64) (*Message, error)
	ExistsByMessageID(ctx context.Context, messageID int64) (bool, error)
	// ListByChannel returns the channel's messages ordered newest
	// message date first.
	ListByChannel(ctx context.Context, channelUsername string) ([]*Message, error)
}
