package profile

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authhub/modules/auth"
	"github.com/dmitrymomot/authhub/pkg/logger"
	"github.com/dmitrymomot/authhub/pkg/validator"
)

// Handler exposes the profile API. Every route requires an authenticated
// identity, enforced by the session middleware.
type Handler struct {
	svc      *Service
	sessions *auth.SessionService
	log      *slog.Logger
}

// NewHandler creates the profile HTTP handler.
func NewHandler(svc *Service, sessions *auth.SessionService, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, sessions: sessions, log: log}
}

// Handle builds the profile router.
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(h.sessions.Middleware)

	r.Get("/me", h.get)
	r.Put("/me", h.update)
	r.Post("/avatar", h.setAvatar)

	return r
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, auth.ErrUnauthenticated)
		return
	}

	p, err := h.svc.Get(r.Context(), identity.Provider, identity.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": p})
}

type updateRequest struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	Language    *string `json:"language"`
	Timezone    *string `json:"timezone"`
	Prefs       *struct {
		Newsletter *string `json:"newsletter"`
		Updates    *bool   `json:"updates"`
		Offers     *bool   `json:"offers"`
		Mentions   *bool   `json:"mentions"`
	} `json:"notificationPrefs"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, auth.ErrUnauthenticated)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}

	params := UpdateParams{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Language:    req.Language,
		Timezone:    req.Timezone,
	}
	if req.Prefs != nil {
		params.Newsletter = req.Prefs.Newsletter
		params.Updates = req.Prefs.Updates
		params.Offers = req.Prefs.Offers
		params.Mentions = req.Prefs.Mentions
	}

	p, err := h.svc.Update(r.Context(), identity.Provider, identity.ID, params)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": p})
}

func (h *Handler) setAvatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, auth.ErrUnauthenticated)
		return
	}

	// The extra headroom covers multipart framing around the 5MB payload.
	r.Body = http.MaxBytesReader(w, r.Body, MaxAvatarBytes+(64<<10))
	if err := r.ParseMultipartForm(MaxAvatarBytes); err != nil {
		h.respondError(w, ErrAvatarTooLarge)
		return
	}

	f, _, err := r.FormFile("avatar")
	if err != nil {
		h.respondError(w, ErrMissingFile)
		return
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, MaxAvatarBytes+1))
	if err != nil {
		h.respondError(w, ErrProcessingFailed)
		return
	}
	if len(data) > MaxAvatarBytes {
		h.respondError(w, ErrAvatarTooLarge)
		return
	}

	avatarURL, err := h.svc.SetAvatar(r.Context(), identity.Provider, identity.ID, data)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"avatarUrl": avatarURL})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if ve, ok := validator.Extract(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "validation failed",
			"details": ve.Details(),
		})
		return
	}

	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthenticated"})
	case errors.Is(err, ErrProfileNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "profile not found"})
	case errors.Is(err, ErrMissingFile):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "avatar file is required"})
	case errors.Is(err, ErrAvatarTooLarge):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "avatar exceeds the size limit"})
	case errors.Is(err, ErrProcessingFailed):
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to process avatar image"})
	default:
		h.log.Error("profile request failed", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
