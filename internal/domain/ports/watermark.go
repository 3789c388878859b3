package ports

import "context"

// WatermarkStore persists the id of the last fully delivered issue.
type WatermarkStore interface {
	// Load returns 0 when nothing was stored yet or the stored value is unusable.
	Load(ctx context.Context) (int, error)
	Save(ctx context.Context, id int) error
}
