package fetcher

import (
	"context"
	"time"

	"newsboard/internal/logger"
)

// Publisher ставит задачу в очередь.
type Publisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

// StartPolling отправляет адреса лент в очередь сразу и затем каждые interval,
// пока не отменён ctx.
func StartPolling(ctx context.Context, pub Publisher, urls []string, interval time.Duration, queueName string) {
	log := logger.Log.WithFields(logger.Fields{
		"service":  "poller",
		"interval": interval.String(),
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		log.Info("Starting new polling cycle")
		for _, url := range urls {
			if err := pub.Publish(ctx, queueName, []byte(url)); err != nil {
				log.WithField("url", url).Errorf("Failed to enqueue feed: %v", err)
			}
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			log.Info("Stopping poller by context")
			return
		}
	}
}
