package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Guilherme-Denarde/coffee-orders/internal/identity/service"
	"github.com/Guilherme-Denarde/coffee-orders/pkg/httputil"
	"github.com/Guilherme-Denarde/coffee-orders/pkg/middleware"
	"github.com/Guilherme-Denarde/coffee-orders/pkg/validator"
)

// ProfileHandler handles HTTP requests for customer profiles.
type ProfileHandler struct {
	service *service.ProfileService
	logger  *slog.Logger
}

// NewProfileHandler creates a new profile HTTP handler.
func NewProfileHandler(svc *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: svc,
		logger:  logger,
	}
}

// SignInRequest carries the display fields the OAuth callback page posts after
// a successful sign-in. Identity itself comes from the bearer token.
type SignInRequest struct {
	Name     string `json:"name" validate:"max=200"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url"`
}

// SetCoffeeMakerRequest is the JSON request body for flipping the staff flag.
type SetCoffeeMakerRequest struct {
	CoffeeMaker *bool `json:"coffee_maker" validate:"required"`
}

// SignIn handles POST /api/v1/auth/session
func (h *ProfileHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims{
		UserID: middleware.UserIDFromContext(r.Context()),
		Email:  middleware.EmailFromContext(r.Context()),
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SignInRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	profile, err := h.service.EnsureProfile(r.Context(), service.EnsureProfileInput{
		UID:      claims.UserID,
		Email:    claims.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: profile})
}

// Me handles GET /api/v1/me
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: profile})
}

// SetCoffeeMaker handles PUT /api/v1/profiles/{uid}/coffee-maker
func (h *ProfileHandler) SetCoffeeMaker(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SetCoffeeMakerRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	profile, err := h.service.SetCoffeeMaker(r.Context(), uid, *req.CoffeeMaker)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: profile})
}
