package db

import (
	"context"
	"embed"
	"fmt"

	"newsboard/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Database инкапсулирует пул соединений к PostgreSQL.
type Database struct {
	Pool *pgxpool.Pool
}

// NewDB создаёт новый пул соединений по connString и проверяет соединение.
func NewDB(ctx context.Context, connString string) (*Database, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return &Database{Pool: pool}, nil
}

// Close закрывает пул соединений.
func (db *Database) Close() {
	db.Pool.Close()
}

// Ping проверяет доступность базы.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Migrate применяет встроенные миграции goose.
func (db *Database) Migrate(ctx context.Context) error {
	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	defer sqlDB.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// SaveFeed сохраняет URL ленты в rss_feeds, отмечает время опроса и возвращает id.
// При конфликте по URL возвращается id существующей записи.
func (db *Database) SaveFeed(ctx context.Context, url string) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO rss_feeds (url, last_polled)
        VALUES ($1, NOW())
        ON CONFLICT (url) DO UPDATE SET last_polled = EXCLUDED.last_polled
        RETURNING id
    `, url).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save feed %s: %w", url, err)
	}
	return id, nil
}

// SaveNewsItem сохраняет одну новость. Повтор по source_link игнорируется.
// Возвращает true, если запись была добавлена.
func (db *Database) SaveNewsItem(ctx context.Context, item models.Item, feedID int) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
        INSERT INTO news (title, description, publication_date, source_link, rss_feed_id)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (source_link) DO NOTHING
    `, item.Title, item.Description, item.PublishedAt, item.Link, feedID)
	if err != nil {
		return false, fmt.Errorf("save news item %s: %w", item.Link, err)
	}
	return tag.RowsAffected() == 1, nil
}

// LatestNews возвращает n последних новостей, от новых к старым.
func (db *Database) LatestNews(ctx context.Context, n int) ([]models.Post, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT title, COALESCE(description, ''), publication_date, source_link
        FROM news
        ORDER BY publication_date DESC
        LIMIT $1
    `, n)
	if err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0, n)
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.Title, &item.Description, &item.PublishedAt, &item.Link); err != nil {
			return nil, fmt.Errorf("could not scan post: %w", err)
		}
		posts = append(posts, models.NewPost(item.Title, item.Description, item.Link, item.PublishedAt))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read posts: %w", err)
	}
	return posts, nil
}
