package ports

import "context"

// Notifier delivers rendered text blocks to a messaging channel (e.g. Telegram).
type Notifier interface {
	// Send posts text and returns the transport message id, or 0 when none was reported.
	Send(ctx context.Context, text string) (int64, error)
	// Forward copies an already sent message to another chat.
	Forward(ctx context.Context, target string, messageID int64) error
}
