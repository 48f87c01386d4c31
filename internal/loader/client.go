package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Item - одна новость из ответа сервера.
type Item struct {
	Title   string
	Content string
	Link    string
	PubDate string
}

// Batch - новости одного ответа в порядке, в котором их вернул сервер.
type Batch []Item

// wireItem повторяет схему элемента ответа. Указатели позволяют
// отличить отсутствующее поле от пустой строки.
type wireItem struct {
	Title   *string `json:"Title"`
	Content *string `json:"Content"`
	Link    *string `json:"Link"`
	PubDate *string `json:"PubDate"`
}

// Client запрашивает последние новости у сервера.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient создаёт клиент для сервера baseURL. timeout == 0 означает
// отсутствие таймаута.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchBatch выполняет GET {baseURL}/news/{count} и разбирает ответ.
func (c *Client) FetchBatch(ctx context.Context, count int) (Batch, error) {
	if count < 1 {
		return nil, fmt.Errorf("news count must be positive, got %d", count)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/news/"+strconv.Itoa(count), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	return DecodeBatch(body)
}

// DecodeBatch разбирает JSON-массив новостей. Каждый элемент обязан
// содержать все четыре строковых поля, а Link - разбираться как URL.
func DecodeBatch(body []byte) (Batch, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrPayload)
	}

	var items *[]*wireItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayload, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: body is not an array", ErrPayload)
	}

	batch := make(Batch, 0, len(*items))
	for i, w := range *items {
		if w == nil {
			return nil, fmt.Errorf("%w: item %d is null", ErrPayload, i)
		}
		if w.Title == nil || w.Content == nil || w.Link == nil || w.PubDate == nil {
			return nil, fmt.Errorf("%w: item %d misses required fields", ErrPayload, i)
		}
		if _, err := url.Parse(*w.Link); err != nil {
			return nil, fmt.Errorf("%w: item %d has invalid link: %v", ErrPayload, i, err)
		}
		batch = append(batch, Item{
			Title:   *w.Title,
			Content: *w.Content,
			Link:    *w.Link,
			PubDate: *w.PubDate,
		})
	}
	return batch, nil
}
