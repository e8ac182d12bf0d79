package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/authhub/pkg/logger"
	"github.com/dmitrymomot/authhub/pkg/validator"
)

// Handler exposes the auth flows as a JSON API. Mount it under the auth
// prefix of the application router.
type Handler struct {
	local    *LocalService
	google   *GoogleService
	sessions *SessionService
	log      *slog.Logger
}

// NewHandler creates the auth HTTP handler.
func NewHandler(local *LocalService, google *GoogleService, sessions *SessionService, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{local: local, google: google, sessions: sessions, log: log}
}

// Handle builds the auth router.
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/signup", h.signup)
	r.Post("/verify-otp", h.verifyOTP)
	r.Post("/login", h.login)
	r.With(h.sessions.Middleware).Get("/me", h.me)

	r.Get("/google", h.googleBegin)
	r.Get("/google/callback", h.googleCallback)
	r.Post("/google/set-username", h.googleSetUsername)

	return r
}

type signupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !h.decode(w, r, &req) {
		return
	}

	pending, err := h.local.BeginSignup(r.Context(), SignupParams{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"pendingId": pending.ID,
		"username":  pending.Username,
		"email":     pending.Email,
	})
}

type verifyOTPRequest struct {
	PendingID string `json:"pendingId"`
	OTP       string `json:"otp"`
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !h.decode(w, r, &req) {
		return
	}

	pendingID, err := uuid.Parse(req.PendingID)
	if err != nil {
		h.respondError(w, ErrPendingNotFound)
		return
	}

	acct, err := h.local.VerifyOTP(r.Context(), pendingID, req.OTP)
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": acct.Identity()})
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, acct, err := h.local.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  acct.Identity(),
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": identity})
}

func (h *Handler) googleBegin(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.google.AuthURL(r.Context(), Intent(r.URL.Query().Get("intent")))
	if err != nil {
		h.respondError(w, err)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// googleCallback always answers with a redirect; the user agent is mid
// OAuth round-trip and cannot consume a JSON error body.
func (h *Handler) googleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	redirect := h.google.Callback(r.Context(), q.Get("state"), q.Get("code"))
	http.Redirect(w, r, redirect, http.StatusFound)
}

type setUsernameRequest struct {
	PendingID string `json:"pendingId"`
	Username  string `json:"username"`
}

func (h *Handler) googleSetUsername(w http.ResponseWriter, r *http.Request) {
	var req setUsernameRequest
	if !h.decode(w, r, &req) {
		return
	}

	pendingID, err := uuid.Parse(req.PendingID)
	if err != nil {
		h.respondError(w, ErrAccountNotFound)
		return
	}

	acct, err := h.google.SetUsername(r.Context(), pendingID, req.Username)
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"username": acct.Username,
		"email":    acct.Email,
	})
}

const maxJSONBody = 1 << 20 // 1MB

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return false
	}
	return true
}

// respondError maps domain errors onto the wire and logs the unexpected
// ones before collapsing them to a generic 500.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if status(err) == http.StatusInternalServerError {
		h.log.Error("request failed", logger.Error(err))
	}
	writeError(w, err)
}

func writeError(w http.ResponseWriter, err error) {
	if ve, ok := validator.Extract(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "validation failed",
			"details": ve.Details(),
		})
		return
	}

	code := status(err)
	msg := "internal server error"
	if code != http.StatusInternalServerError {
		msg = publicMessage(err)
	}
	writeJSON(w, code, map[string]any{"error": msg})
}

func status(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPendingNotFound), errors.Is(err, ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrUsernameTaken),
		errors.Is(err, ErrOTPMismatch),
		errors.Is(err, ErrOTPExpired),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUsernameAlreadySet),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrInvalidCode),
		errors.Is(err, ErrNoEmail):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage strips the package prefix from sentinel errors so wire
// responses stay presentable.
func publicMessage(err error) string {
	for _, sentinel := range []error{
		ErrEmailTaken, ErrUsernameTaken, ErrPendingNotFound, ErrOTPMismatch,
		ErrOTPExpired, ErrInvalidCredentials, ErrUnauthenticated,
		ErrAccountNotFound, ErrInvalidState, ErrInvalidCode, ErrNoEmail,
		ErrUsernameAlreadySet,
	} {
		if errors.Is(err, sentinel) {
			msg := sentinel.Error()
			return msg[len("auth: "):]
		}
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
