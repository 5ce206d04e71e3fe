package schedule

import (
	"context"
	"fmt"

	"github.com/nhle/mailsift/internal/model"
)

// Sink is the slice of the persistence layer a rebuild needs.
type Sink interface {
	DeleteAllSchedules(ctx context.Context) error
	InsertSchedule(ctx context.Context, ev model.Schedule) error
}

// Rebuild discards every stored schedule and re-extracts from the given
// messages. It returns the number of schedules written. Rebuilding is
// all-or-replace so that extraction rule changes take effect uniformly
// across old mail.
func Rebuild(ctx context.Context, msgs []model.Message, sink Sink) (int, error) {
	if err := sink.DeleteAllSchedules(ctx); err != nil {
		return 0, fmt.Errorf("clearing schedules: %w", err)
	}

	n := 0
	for _, m := range msgs {
		ev, ok := Extract(m)
		if !ok {
			continue
		}
		if err := sink.InsertSchedule(ctx, ev); err != nil {
			return n, fmt.Errorf("inserting schedule for message %s: %w", m.ID, err)
		}
		n++
	}
	return n, nil
}
