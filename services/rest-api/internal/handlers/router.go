package handlers

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"picshare/services/rest-api/internal/middleware"
	"picshare/services/rest-api/internal/response"
)

// Pinger проверяет доступность БД для /health
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterConfig — всё, что нужно для сборки HTTP API
type RouterConfig struct {
	Auth         *AuthHandler
	Users        *UserHandler
	Posts        *PostHandler
	Comments     *CommentHandler
	RequireAuth  func(http.Handler) http.Handler
	LoginLimiter func(http.Handler) http.Handler
	DB           Pinger
	ImagesDir    string
	CORSOrigins  []string
	Timeout      time.Duration
}

// NewRouter собирает chi роутер со всеми маршрутами
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	if cfg.Timeout > 0 {
		r.Use(chimw.Timeout(cfg.Timeout))
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Healthcheck
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if cfg.DB != nil {
			if err := cfg.DB.PingContext(r.Context()); err != nil {
				respondError(w, http.StatusServiceUnavailable, response.KindInternal, "database unavailable")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	loginLimiter := cfg.LoginLimiter
	if loginLimiter == nil {
		loginLimiter = func(next http.Handler) http.Handler { return next }
	}
	r.With(loginLimiter).Post("/login", cfg.Auth.Login)

	r.Route("/user", func(r chi.Router) {
		r.Post("/", cfg.Users.Create)
		r.Group(func(r chi.Router) {
			r.Use(cfg.RequireAuth)
			r.Get("/", cfg.Users.List)
			r.Delete("/{id}", cfg.Users.Delete)
		})
	})

	r.Route("/post", func(r chi.Router) {
		r.Get("/", cfg.Posts.List)
		r.Group(func(r chi.Router) {
			r.Use(cfg.RequireAuth)
			r.Post("/", cfg.Posts.Create)
			r.Post("/image", cfg.Posts.UploadImage)
			r.Delete("/{id}", cfg.Posts.Delete)
		})
	})

	r.Route("/comment", func(r chi.Router) {
		r.Get("/{post_id}", cfg.Comments.List)
		r.Group(func(r chi.Router) {
			r.Use(cfg.RequireAuth)
			r.Post("/{post_id}", cfg.Comments.Create)
			r.Delete("/{comment_id}", cfg.Comments.Delete)
		})
	})

	// Загруженные изображения, только чтение
	if cfg.ImagesDir != "" {
		images := http.StripPrefix("/images/", http.FileServer(filesOnly{http.Dir(cfg.ImagesDir)}))
		r.Get("/images/*", images.ServeHTTP)
	}

	return r
}

// filesOnly отдаёт только файлы: каталоги (и их листинг) выглядят как несуществующие
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
