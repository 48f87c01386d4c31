package loader_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"newsboard/internal/loader"
	"newsboard/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html>
<html><head><title>News</title></head>
<body><div id="news-container"><p>Загрузка...</p></div></body></html>`

func newPage(t *testing.T, src string) *loader.Page {
	t.Helper()
	page, err := loader.NewPage(strings.NewReader(src))
	require.NoError(t, err)
	return page
}

func newsServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/news/10", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMain(m *testing.M) {
	logger.Silence()
	m.Run()
}

func TestLoad_RendersCardsInOrder(t *testing.T) {
	srv := newsServer(t, http.StatusOK, `[
		{"Title":"A","Content":"B","Link":"http://x","PubDate":"2024-01-01"},
		{"Title":"C","Content":"D","Link":"http://y","PubDate":"2024-01-02"},
		{"Title":"E","Content":"F","Link":"http://z","PubDate":"2024-01-03"}
	]`)
	page := newPage(t, testPage)

	err := loader.New(loader.NewClient(srv.URL, 0), 10).Load(context.Background(), page)
	require.NoError(t, err)

	cards := page.Find("#news-container > .news-card")
	require.Equal(t, 3, cards.Length())
	require.Equal(t, 3, page.Find("#news-container").Children().Length(), "old content must be removed")

	want := []struct{ title, content, link, date string }{
		{"A", "B", "http://x", "2024-01-01"},
		{"C", "D", "http://y", "2024-01-02"},
		{"E", "F", "http://z", "2024-01-03"},
	}
	for i, w := range want {
		card := cards.Eq(i)
		link := card.Find("h2 > a")
		assert.Equal(t, w.title, link.Text())
		href, _ := link.Attr("href")
		assert.Equal(t, w.link, href)
		target, _ := link.Attr("target")
		assert.Equal(t, "_blank", target)
		assert.Equal(t, w.content, card.Find("p").Text())
		assert.Equal(t, w.date, card.Find(".pubdate").Text())
	}
}

func TestLoad_SingleItemExample(t *testing.T) {
	srv := newsServer(t, http.StatusOK, `[{"Title":"A","Content":"B","Link":"http://x","PubDate":"2024-01-01"}]`)
	page := newPage(t, testPage)

	require.NoError(t, loader.New(loader.NewClient(srv.URL, 0), 10).Load(context.Background(), page))

	container, err := page.Container()
	require.NoError(t, err)
	html, err := container.Html()
	require.NoError(t, err)
	require.Equal(t,
		`<div class="news-card"><h2><a href="http://x" target="_blank">A</a></h2><p>B</p><div class="pubdate">2024-01-01</div></div>`,
		html)
}

func TestLoad_EmptyBatch(t *testing.T) {
	srv := newsServer(t, http.StatusOK, `[]`)
	page := newPage(t, testPage)

	require.NoError(t, loader.New(loader.NewClient(srv.URL, 0), 10).Load(context.Background(), page))

	container, err := page.Container()
	require.NoError(t, err)
	require.Equal(t, 0, container.Children().Length())
	require.NotContains(t, container.Text(), loader.FailureMessage)
}

func TestLoad_Failures(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		wantErr error
		outcome string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `[{"Title":"A","Content":"B","Link":"http://x","PubDate":"d"}]`, wantErr: loader.ErrStatus, outcome: "status"},
		{name: "not found", status: http.StatusNotFound, body: "404 page not found", wantErr: loader.ErrStatus, outcome: "status"},
		{name: "invalid json", status: http.StatusOK, body: `{ invalid json }`, wantErr: loader.ErrPayload, outcome: "payload"},
		{name: "object instead of array", status: http.StatusOK, body: `{"Title":"A"}`, wantErr: loader.ErrPayload, outcome: "payload"},
		{name: "empty body", status: http.StatusOK, body: "", wantErr: loader.ErrPayload, outcome: "payload"},
		{name: "no content", status: http.StatusNoContent, body: "", wantErr: loader.ErrPayload, outcome: "payload"},
		{name: "null body", status: http.StatusOK, body: `null`, wantErr: loader.ErrPayload, outcome: "payload"},
		{name: "null item", status: http.StatusOK, body: `[null]`, wantErr: loader.ErrPayload, outcome: "payload"},
		{name: "missing field", status: http.StatusOK, body: `[{"Title":"A","Content":"B","Link":"http://x"}]`, wantErr: loader.ErrPayload, outcome: "payload"},
		{name: "wrong field type", status: http.StatusOK, body: `[{"Title":1,"Content":"B","Link":"http://x","PubDate":"d"}]`, wantErr: loader.ErrPayload, outcome: "payload"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newsServer(t, tc.status, tc.body)
			page := newPage(t, testPage)

			err := loader.New(loader.NewClient(srv.URL, 0), 10).Load(context.Background(), page)
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.outcome, loader.Outcome(err))

			container, err := page.Container()
			require.NoError(t, err)
			require.Equal(t, 0, container.Find(".news-card").Length())
			require.Equal(t, 1, container.Children().Length())
			require.Equal(t, loader.FailureMessage, container.Children().First().Text())
		})
	}
}

func TestLoad_StatusErrorCarriesCode(t *testing.T) {
	srv := newsServer(t, http.StatusServiceUnavailable, "")
	page := newPage(t, testPage)

	err := loader.New(loader.NewClient(srv.URL, 0), 10).Load(context.Background(), page)

	var statusErr *loader.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
}

func TestLoad_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	page := newPage(t, testPage)

	err := loader.New(loader.NewClient(url, 0), 10).Load(context.Background(), page)
	require.ErrorIs(t, err, loader.ErrTransport)
	require.Equal(t, "transport", loader.Outcome(err))

	container, err := page.Container()
	require.NoError(t, err)
	require.Equal(t, loader.FailureMessage, container.Text())
}

func TestLoad_SecondLoadReplacesFirst(t *testing.T) {
	bodies := []string{
		`[{"Title":"first-1","Content":"c","Link":"http://1","PubDate":"d"},{"Title":"first-2","Content":"c","Link":"http://2","PubDate":"d"}]`,
		`[{"Title":"second","Content":"c","Link":"http://3","PubDate":"d"}]`,
	}
	call := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(bodies[call]))
		call++
	}))
	defer srv.Close()

	page := newPage(t, testPage)
	ld := loader.New(loader.NewClient(srv.URL, 0), 10)

	require.NoError(t, ld.Load(context.Background(), page))
	require.NoError(t, ld.Load(context.Background(), page))

	cards := page.Find("#news-container .news-card")
	require.Equal(t, 1, cards.Length())
	require.Equal(t, "second", cards.Find("a").Text())
}

func TestLoad_FailureAfterSuccessLeavesOnlyMessage(t *testing.T) {
	ok := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ok {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"Title":"A","Content":"B","Link":"http://x","PubDate":"d"}]`))
	}))
	defer srv.Close()

	page := newPage(t, testPage)
	ld := loader.New(loader.NewClient(srv.URL, 0), 10)
	require.NoError(t, ld.Load(context.Background(), page))

	ok = false
	require.Error(t, ld.Load(context.Background(), page))

	container, err := page.Container()
	require.NoError(t, err)
	require.Equal(t, 0, container.Find(".news-card").Length())
	require.Equal(t, loader.FailureMessage, container.Text())
}

func TestLoad_NoContainer(t *testing.T) {
	requested := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	page := newPage(t, `<html><body><div id="other">keep</div></body></html>`)

	err := loader.New(loader.NewClient(srv.URL, 0), 10).Load(context.Background(), page)
	require.ErrorIs(t, err, loader.ErrNoContainer)
	require.False(t, requested)
	require.Equal(t, "keep", page.Find("#other").Text())
}

func TestLoad_EscapesMarkup(t *testing.T) {
	srv := newsServer(t, http.StatusOK, `[{"Title":"<b>bold</b>","Content":"<script>alert(1)</script>","Link":"http://x?a=1&b=2","PubDate":"d"}]`)
	page := newPage(t, testPage)

	require.NoError(t, loader.New(loader.NewClient(srv.URL, 0), 10).Load(context.Background(), page))

	require.Equal(t, 0, page.Find("#news-container script").Length())
	require.Equal(t, "<script>alert(1)</script>", page.Find("#news-container p").Text())

	html, err := page.HTML()
	require.NoError(t, err)
	require.Contains(t, html, "&lt;b&gt;bold&lt;/b&gt;")
}

func TestNew_DefaultCount(t *testing.T) {
	require.Equal(t, loader.DefaultCount, loader.New(loader.NewClient("http://localhost", 0), 0).Count())
	require.Equal(t, 3, loader.New(loader.NewClient("http://localhost", 0), 3).Count())
}

func TestFetchBatch_RejectsNonPositiveCount(t *testing.T) {
	_, err := loader.NewClient("http://localhost", 0).FetchBatch(context.Background(), 0)
	require.Error(t, err)
}

func TestDecodeBatch_EmptyBody(t *testing.T) {
	_, err := loader.DecodeBatch([]byte("  \n"))
	require.ErrorIs(t, err, loader.ErrPayload)
	require.ErrorContains(t, err, "empty body")
}

func TestDecodeBatch_InvalidLink(t *testing.T) {
	_, err := loader.DecodeBatch([]byte(`[{"Title":"A","Content":"B","Link":"http://[::1","PubDate":"d"}]`))
	require.ErrorIs(t, err, loader.ErrPayload)
}
