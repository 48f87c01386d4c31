package server

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	"newsboard/internal/loader"
	"newsboard/internal/logger"
	"newsboard/internal/middleware"
	"newsboard/internal/models"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxNewsLimit = 100

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store - то, что серверу нужно от хранилища новостей.
type Store interface {
	LatestNews(ctx context.Context, n int) ([]models.Post, error)
	Ping(ctx context.Context) error
}

// Server хранит зависимости HTTP-обработчиков.
type Server struct {
	store  Store
	loader *loader.Loader
	page   []byte
	static fs.FS
}

// NewServer создаёт Server. page - HTML-шаблон главной страницы с контейнером
// новостей, static - файлы, отдаваемые по /static/.
func NewServer(store Store, ld *loader.Loader, page []byte, static fs.FS) *Server {
	return &Server{store: store, loader: ld, page: page, static: static}
}

// Routes регистрирует маршруты и оборачивает их middleware.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /news/{n}", s.GetNews)
	mux.HandleFunc("GET /health", s.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(s.static))))
	mux.HandleFunc("GET /{$}", s.Index)
	return middleware.Chain(mux)
}

// HealthCheck отвечает 200 OK, если база доступна, иначе 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		http.Error(w, "DB unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}

// GetNews возвращает JSON-массив последних n новостей, от новых к старым.
// n больше 100 ограничивается сотней.
func (s *Server) GetNews(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil || n < 1 {
		http.Error(w, "Invalid number format", http.StatusBadRequest)
		return
	}
	if n > maxNewsLimit {
		n = maxNewsLimit
	}

	posts, err := s.store.LatestNews(r.Context(), n)
	if err != nil {
		logger.Log.WithError(err).WithField("request_id", middleware.RequestID(r.Context())).Error("Error retrieving posts")
		http.Error(w, "Error retrieving posts", http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	body, err := json.Marshal(posts)
	if err != nil {
		http.Error(w, "Error encoding response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Index отдаёт главную страницу с уже загруженными новостями.
// Ошибка загрузки новостей не прерывает ответ: страница содержит сообщение
// об ошибке вместо карточек.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	page, err := loader.NewPage(bytes.NewReader(s.page))
	if err != nil {
		logger.Log.WithError(err).Error("Page template is broken")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := s.loader.Load(r.Context(), page); errors.Is(err, loader.ErrNoContainer) {
		logger.Log.WithError(err).Error("Page template has no news container")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	html, err := page.HTML()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}
