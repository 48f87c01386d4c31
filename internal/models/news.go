package models

import "time"

// Post - публикация в том виде, в котором её отдаёт GET /news/{n}.
// Имена полей в JSON совпадают с именами полей структуры.
type Post struct {
	Title   string `json:"Title"`
	Content string `json:"Content"`
	Link    string `json:"Link"`
	PubDate string `json:"PubDate"`
}

// Item - публикация, полученная из RSS/Atom-ленты и готовая к сохранению.
type Item struct {
	Title       string
	Description string
	Link        string
	PublishedAt time.Time
}

// PubDateLayout - формат, в котором сервер отдаёт дату публикации.
const PubDateLayout = time.RFC1123Z

// NewPost собирает Post из сохранённых полей новости.
func NewPost(title, content, link string, publishedAt time.Time) Post {
	return Post{
		Title:   title,
		Content: content,
		Link:    link,
		PubDate: publishedAt.Format(PubDateLayout),
	}
}
