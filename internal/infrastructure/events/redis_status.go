// Package events fans verification status changes out over Redis Pub/Sub.
package events

import (
	"context"
	"encoding/json"
	"sync"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"tutorlink.backend/internal/domain/entities"
	"tutorlink.backend/internal/domain/repositories"
	"tutorlink.backend/pkg/logger"
	redispkg "tutorlink.backend/pkg/redis"
)

const (
	userChannelPrefix = "verification:status:"
	AdminChannel      = "verification:status:admin"
)

// UserChannel is the channel carrying one user's status events
func UserChannel(userID string) string {
	return userChannelPrefix + userID
}

var (
	publish   = redispkg.Publish
	subscribe = redispkg.Subscribe
)

// RedisStatusPublisher publishes every event to the owner's channel and the admin channel
type RedisStatusPublisher struct{}

func NewRedisStatusPublisher() *RedisStatusPublisher { return &RedisStatusPublisher{} }

func (p *RedisStatusPublisher) PublishStatus(ctx context.Context, event entities.StatusEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := publish(ctx, UserChannel(event.UserID.String()), payload); err != nil {
		return err
	}
	return publish(ctx, AdminChannel, payload)
}

// RedisStatusSubscriber opens Pub/Sub subscriptions for SSE streams
type RedisStatusSubscriber struct {
	buffer int
}

func NewRedisStatusSubscriber() *RedisStatusSubscriber { return &RedisStatusSubscriber{buffer: 16} }

func (s *RedisStatusSubscriber) SubscribeUser(ctx context.Context, userID string) (repositories.StatusSubscription, error) {
	return s.open(ctx, UserChannel(userID))
}

func (s *RedisStatusSubscriber) SubscribeAdmin(ctx context.Context) (repositories.StatusSubscription, error) {
	return s.open(ctx, AdminChannel)
}

func (s *RedisStatusSubscriber) open(ctx context.Context, channel string) (repositories.StatusSubscription, error) {
	ps, err := subscribe(ctx, channel)
	if err != nil {
		return nil, err
	}
	sub := &subscription{ps: ps, out: make(chan entities.StatusEvent, s.buffer), done: make(chan struct{})}
	go sub.pump(ctx, ps.Channel())
	return sub, nil
}

type subscription struct {
	ps   *goredis.PubSub
	out  chan entities.StatusEvent
	done chan struct{}
	once sync.Once
}

func (s *subscription) Events() <-chan entities.StatusEvent { return s.out }

func (s *subscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.ps.Close()
	})
	return err
}

func (s *subscription) pump(ctx context.Context, in <-chan *goredis.Message) {
	defer close(s.out)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			var event entities.StatusEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn(ctx, "Dropping malformed status event", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			select {
			case s.out <- event:
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		}
	}
}
