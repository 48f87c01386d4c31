package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"newsboard/internal/logger"
	"newsboard/internal/models"

	"github.com/mmcdole/gofeed"
)

const fetchTimeout = 10 * time.Second

var client = &http.Client{Timeout: fetchTimeout}

// FetchFeed загружает RSS- или Atom-ленту по url и возвращает её публикации.
// Публикации без разбираемой даты пропускаются.
func FetchFeed(ctx context.Context, url string) ([]models.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch feed: unexpected status %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	log := logger.Log.WithField("url", url)
	items := make([]models.Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it.PublishedParsed == nil {
			log.Warnf("Failed to parse date '%s' of '%s'", it.Published, it.Title)
			continue
		}

		description := strings.TrimSpace(it.Description)
		if description == "" {
			description = strings.TrimSpace(it.Content)
		}

		items = append(items, models.Item{
			Title:       strings.TrimSpace(it.Title),
			Description: description,
			Link:        strings.TrimSpace(it.Link),
			PublishedAt: it.PublishedParsed.UTC(),
		})
	}
	return items, nil
}
