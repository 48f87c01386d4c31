package loader

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// ContainerID - идентификатор элемента, в который выводятся новости.
	ContainerID = "news-container"

	// FailureMessage показывается вместо новостей при любой ошибке загрузки.
	FailureMessage = "Не удалось загрузить новости. Попробуйте обновить страницу позже."

	cardClass    = "news-card"
	pubDateClass = "pubdate"
)

// Page - HTML-документ страницы, в котором находится контейнер новостей.
type Page struct {
	doc *goquery.Document
}

// NewPage разбирает HTML-документ из r.
func NewPage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Page{doc: doc}, nil
}

// Find выполняет CSS-селектор по документу.
func (p *Page) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// Container возвращает контейнер новостей.
func (p *Page) Container() (*goquery.Selection, error) {
	sel := p.doc.Find("#" + ContainerID).First()
	if sel.Length() == 0 {
		return nil, ErrNoContainer
	}
	return sel, nil
}

// HTML сериализует документ целиком.
func (p *Page) HTML() (string, error) {
	return p.doc.Html()
}

// RenderBatch заменяет содержимое контейнера карточками новостей.
func RenderBatch(container *goquery.Selection, batch Batch) {
	container.Empty()
	for _, item := range batch {
		container.AppendNodes(card(item))
	}
}

// RenderFailure заменяет содержимое контейнера сообщением об ошибке.
func RenderFailure(container *goquery.Selection) {
	container.Empty()
	p := element(atom.P)
	p.AppendChild(text(FailureMessage))
	container.AppendNodes(p)
}

// card строит <div class="news-card"> с заголовком-ссылкой, текстом и датой.
// Поля попадают в текстовые узлы и атрибуты, поэтому разметка из ответа
// экранируется при сериализации.
func card(item Item) *html.Node {
	link := element(atom.A,
		html.Attribute{Key: "href", Val: item.Link},
		html.Attribute{Key: "target", Val: "_blank"},
	)
	link.AppendChild(text(item.Title))

	heading := element(atom.H2)
	heading.AppendChild(link)

	content := element(atom.P)
	content.AppendChild(text(item.Content))

	pubDate := element(atom.Div, html.Attribute{Key: "class", Val: pubDateClass})
	pubDate.AppendChild(text(item.PubDate))

	div := element(atom.Div, html.Attribute{Key: "class", Val: cardClass})
	div.AppendChild(heading)
	div.AppendChild(content)
	div.AppendChild(pubDate)
	return div
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
