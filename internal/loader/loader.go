// Package loader загружает последние новости с сервера и выводит их
// карточками в контейнер страницы.
package loader

import (
	"context"

	"newsboard/internal/logger"
	"newsboard/internal/metrics"
)

// DefaultCount - сколько новостей запрашивается за одну загрузку.
const DefaultCount = 10

// Loader выполняет загрузку новостей для одной страницы.
type Loader struct {
	client *Client
	count  int
}

// New создаёт Loader. count < 1 заменяется на DefaultCount.
func New(client *Client, count int) *Loader {
	if count < 1 {
		count = DefaultCount
	}
	return &Loader{client: client, count: count}
}

// Count возвращает размер запрашиваемой пачки.
func (l *Loader) Count() int {
	return l.count
}

// Load запрашивает новости и перерисовывает контейнер страницы.
// При любой ошибке запроса в контейнер выводится FailureMessage,
// причина пишется в лог и возвращается вызывающему.
// Без контейнера запрос не выполняется и возвращается ErrNoContainer.
func (l *Loader) Load(ctx context.Context, page *Page) error {
	container, err := page.Container()
	if err != nil {
		metrics.NewsLoads.WithLabelValues(Outcome(err)).Inc()
		return err
	}

	batch, err := l.client.FetchBatch(ctx, l.count)
	metrics.NewsLoads.WithLabelValues(Outcome(err)).Inc()
	if err != nil {
		logger.Log.WithError(err).WithField("count", l.count).Error("Ошибка загрузки новостей")
		RenderFailure(container)
		return err
	}

	RenderBatch(container, batch)
	logger.Log.WithField("items_count", len(batch)).Debug("News rendered")
	return nil
}
