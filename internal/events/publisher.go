package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

const DefaultChannel = "trivia:questions"

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher pushes question events onto a Redis Pub/Sub channel.
type Publisher struct {
	redis   redisPublisher
	channel string
	logger  zerolog.Logger
	now     func() time.Time
}

var _ trivia.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a Redis-backed event publisher.
func NewPublisher(client redisPublisher, channel string, logger zerolog.Logger) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{
		redis:   client,
		channel: channel,
		logger:  logger.With().Str("component", "question_events").Logger(),
		now:     time.Now,
	}
}

func (p *Publisher) QuestionCreated(ctx context.Context, q trivia.Question) {
	p.publish(ctx, QuestionEvent{Type: TypeQuestionCreated, QuestionID: q.ID, Question: &q, At: p.now().UTC()})
}

func (p *Publisher) QuestionDeleted(ctx context.Context, id int) {
	p.publish(ctx, QuestionEvent{Type: TypeQuestionDeleted, QuestionID: id, At: p.now().UTC()})
}

// publish logs failures instead of returning them.
func (p *Publisher) publish(ctx context.Context, evt QuestionEvent) {
	data, err := json.Marshal(evt)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to encode question event")
		return
	}
	if err := p.redis.Publish(ctx, p.channel, data).Err(); err != nil {
		p.logger.Warn().Err(err).Str("type", evt.Type).Int("question_id", evt.QuestionID).Msg("failed to publish question event")
	}
}
