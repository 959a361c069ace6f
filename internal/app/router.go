package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/weedz/secrets/internal/domain"
	"github.com/weedz/secrets/web"
)

// RouterConfig carries the HTTP-boundary knobs the router needs.
type RouterConfig struct {
	RequireHTTPS bool
}

func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(SecurityHeaders(SecurityHeadersConfig{RequireHTTPS: cfg.RequireHTTPS}))

	r.Get("/health", h.HandleHealth)

	r.Get("/", h.HandleIndex)
	r.Get("/secret", h.HandleSecretPage)
	r.Get("/client.js", h.HandleClientJS)
	r.Get("/style.css", h.HandleStyleCSS)
	r.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(web.StaticFS())))

	r.Get("/token", h.HandleRead)
	r.Group(func(r chi.Router) {
		r.Use(ContentLengthValidator(domain.MaxRequestBodySize))
		r.Post("/create-secret", h.HandleCreate)
	})

	return r
}
