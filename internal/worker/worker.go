package worker

import (
	"context"

	"newsboard/internal/fetcher"
	"newsboard/internal/logger"
	"newsboard/internal/metrics"
	"newsboard/internal/models"
)

// Store - то, что воркеру нужно от хранилища.
type Store interface {
	SaveFeed(ctx context.Context, url string) (int, error)
	SaveNewsItem(ctx context.Context, item models.Item, feedID int) (bool, error)
}

// FetchFunc загружает публикации ленты.
type FetchFunc func(ctx context.Context, url string) ([]models.Item, error)

type Worker struct {
	store Store
	fetch FetchFunc
}

func NewWorker(store Store) *Worker {
	return &Worker{store: store, fetch: fetcher.FetchFeed}
}

// HandleTask обрабатывает одну задачу: тело - адрес ленты.
// Ошибки загрузки и сохранения ленты возвращаются, чтобы задача была повторена;
// ошибки отдельных новостей только логируются.
func (w *Worker) HandleTask(ctx context.Context, body []byte) error {
	url := string(body)

	log := logger.Log.WithField("url", url)
	log.Info("Processing feed")

	items, err := w.fetch(ctx, url)
	if err != nil {
		log.Errorf("Fetch failed: %v", err)
		return err
	}

	feedID, err := w.store.SaveFeed(ctx, url)
	if err != nil {
		log.Errorf("Save feed failed: %v", err)
		return err
	}

	saved := 0
	for _, item := range items {
		added, err := w.store.SaveNewsItem(ctx, item, feedID)
		switch {
		case err != nil:
			metrics.FeedItems.WithLabelValues("failed").Inc()
			log.Warnf("Save item failed: %v", err)
		case added:
			saved++
			metrics.FeedItems.WithLabelValues("saved").Inc()
		default:
			metrics.FeedItems.WithLabelValues("skipped").Inc()
		}
	}

	log.WithField("items_count", len(items)).Infof("Processed feed, %d new items", saved)
	return nil
}
