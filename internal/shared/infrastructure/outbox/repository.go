package outbox

import (
	"context"
	"time"
)

// Repository persists outbox messages. Save and SaveBatch join the unit of
// work carried by ctx so events commit together with the state change.
type Repository interface {
	Save(ctx context.Context, msg *Message) error
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns pending messages due for (re)delivery, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)
	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error

	// DeletePublishedBefore removes published messages older than cutoff.
	DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
