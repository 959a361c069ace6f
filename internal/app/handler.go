package app

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"

	"github.com/weedz/secrets/internal/domain"
	"github.com/weedz/secrets/internal/ratelimit"
	"github.com/weedz/secrets/internal/secrets"
	"github.com/weedz/secrets/internal/utility"
	"github.com/weedz/secrets/web"
)

type Handler struct {
	service *secrets.Service
	limiter *ratelimit.Limiter
}

func NewHandler(svc *secrets.Service, limiter *ratelimit.Limiter) *Handler {
	return &Handler{service: svc, limiter: limiter}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// HandleCreate admits, validates and stores a new secret, returning the
// capability token and authentication tag. Neither is kept server-side.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(utility.ClientAddr(r)) {
		utility.HttpError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxRequestBodySize)
	var req domain.CreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utility.HttpError(w, http.StatusRequestEntityTooLarge, "secret exceeds maximum size")
			return
		}
		utility.HttpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Data == "" {
		utility.HttpError(w, http.StatusBadRequest, "data is required")
		return
	}
	if req.MaxViews < 1 || req.MaxViews > domain.MaxViews {
		utility.HttpError(w, http.StatusBadRequest, "maxViews must be between 1 and 100")
		return
	}
	if req.TimeLimit < 1 || req.TimeLimit > domain.MaxTimeLimitDays {
		utility.HttpError(w, http.StatusBadRequest, "timeLimit must be between 1 and 30 days")
		return
	}

	expiresAt := time.Now().Add(time.Duration(req.TimeLimit) * 24 * time.Hour)

	token, tag, err := h.service.Create(r.Context(), []byte(req.Data), req.MaxViews, expiresAt)
	if err != nil {
		if domain.IsValidation(err) {
			utility.HttpError(w, http.StatusBadRequest, err.Error())
			return
		}
		clog.FromContext(r.Context()).Errorf("create secret: %v", err)
		utility.HttpError(w, http.StatusInternalServerError, "failed to store secret")
		return
	}

	utility.WriteJSON(w, http.StatusCreated, domain.CreateRes{
		ID:        base64.RawURLEncoding.EncodeToString(token),
		AuthTag:   base64.RawURLEncoding.EncodeToString(tag),
		ExpiresAt: expiresAt.UTC(),
	})
}

// HandleRead consumes one view of a secret. Absent, expired, exhausted and
// tampered all look the same from the outside: 404.
func (h *Handler) HandleRead(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	tag := r.URL.Query().Get("tag")
	if id == "" || tag == "" {
		utility.HttpError(w, http.StatusBadRequest, "id and tag are required")
		return
	}

	token, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		utility.HttpError(w, http.StatusNotFound, "not found")
		return
	}
	tagBytes, err := base64.RawURLEncoding.DecodeString(tag)
	if err != nil {
		utility.HttpError(w, http.StatusNotFound, "not found")
		return
	}

	plaintext, err := h.service.Consume(r.Context(), token, tagBytes)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAuthenticationFailed) {
			utility.HttpError(w, http.StatusNotFound, "not found")
			return
		}
		clog.FromContext(r.Context()).Errorf("consume secret: %v", err)
		utility.HttpError(w, http.StatusInternalServerError, "failed to fetch secret")
		return
	}

	utility.WriteJSON(w, http.StatusOK, domain.ReadRes{Data: string(plaintext)})
}

// HandleSecretPage serves the reveal page. The id is only checked for
// presence; the actual consume happens from the page via /token.
func (h *Handler) HandleSecretPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("id") == "" {
		utility.HttpError(w, http.StatusBadRequest, "id is required")
		return
	}
	h.serveStatic(w, r, "token.html", "text/html; charset=utf-8")
}

func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.serveStatic(w, r, "index.html", "text/html; charset=utf-8")
}

func (h *Handler) HandleClientJS(w http.ResponseWriter, r *http.Request) {
	h.serveStatic(w, r, "client.js", "application/javascript; charset=utf-8")
}

func (h *Handler) HandleStyleCSS(w http.ResponseWriter, r *http.Request) {
	h.serveStatic(w, r, "style.css", "text/css; charset=utf-8")
}

func (h *Handler) serveStatic(w http.ResponseWriter, r *http.Request, name, contentType string) {
	content, err := web.GetFile(name)
	if err != nil {
		clog.FromContext(r.Context()).Errorf("read embedded asset %s: %v", name, err)
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(content)
}
