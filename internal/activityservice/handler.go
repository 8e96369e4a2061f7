package activityservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/harutoki/blogdeck/internal/common"
	"golang.org/x/exp/rand"
)

func NewActivityService(mb common.MessageConsumer, logger ActivityLogger) *ActivityService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ActivityService{
		mb:     mb,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// LogEngagement consumes like and read events off the engagement queue and
// writes them to the activity log.
func (s *ActivityService) LogEngagement() {
	msgs, err := s.mb.Consume("", common.EngagementExchange, common.EngagementQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var event struct {
					PostID string    `json:"post_id"`
					UserID string    `json:"user_id"`
					At     time.Time `json:"at"`
				}

				err := json.Unmarshal(msg.Body, &event)
				if err != nil {
					s.logger.Error("could not unmarshal engagement event", slog.String("error", err.Error()))
					msg.Ack(false)
					continue
				}

				// acking can fail transiently under broker pressure
				const maxRetries = 5
				const baseDelay = 500 * time.Millisecond

				var attempt int
				for attempt = 0; attempt < maxRetries; attempt++ {
					err = msg.Ack(false)
					if err == nil {
						s.logger.Info("engagement recorded",
							slog.String("kind", msg.RoutingKey),
							slog.String("post_id", event.PostID),
							slog.String("user_id", event.UserID))
						break
					}

					delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
					s.logger.Info("delaying engagement ack", slog.Int("attempt", attempt), slog.Duration("delay", delay))
					time.Sleep(delay)
				}

				if attempt == maxRetries {
					s.logger.Error("could not ack engagement event", slog.String("post_id", event.PostID))
				}

			case <-s.ctx.Done():
				s.logger.Info("stopping LogEngagement due to context cancellation")
				return
			}
		}
	}()
}

func (s *ActivityService) Close() {
	s.cancel()
}
