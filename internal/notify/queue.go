package notify

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// QueueDispatcher publishes mail jobs onto a redis stream consumed by an
// out-of-process mail worker. Delivery is the worker's problem.
type QueueDispatcher struct {
	queue  *redis.Client
	stream string
	from   string
	log    zerolog.Logger
}

func NewQueueDispatcher(queue *redis.Client, stream string, from string, log zerolog.Logger) *QueueDispatcher {
	return &QueueDispatcher{
		queue:  queue,
		stream: stream,
		from:   from,
		log:    log,
	}
}

func (d *QueueDispatcher) Send(ctx context.Context, to, subject, html string) error {
	_, err := d.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: d.stream,
		Values: map[string]any{
			"type":    "email",
			"from":    d.from,
			"to":      to,
			"subject": subject,
			"html":    html,
		},
	}).Result()
	if err != nil {
		return err
	}

	d.log.Debug().Str("to", to).Str("subject", subject).Msg("mail enqueued")
	return nil
}
