package handler

import (
	"encoding/json"
	"net/http"

	"supplyhub/internal/model"
	"supplyhub/internal/service"
	"supplyhub/pkg/apierror"
	"supplyhub/pkg/response"
)

// UserHandler handles profile-related HTTP requests.
type UserHandler struct {
	accounts *service.AccountService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(accounts *service.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Get handles GET /user, returning the caller's profile without sellers.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	profile, err := h.accounts.Profile(r.Context(), session.AccountID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{"user": profile})
}

// GetData handles GET /user/data, returning the caller's profile with
// sellers included.
func (h *UserHandler) GetData(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	profile, setupCompleted, err := h.accounts.ProfileWithSellers(r.Context(), session.AccountID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"user":            profile,
		"setup_completed": setupCompleted,
	})
}

// Update handles PUT /user. Only allow-listed profile fields change.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var patch model.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	profile, err := h.accounts.UpdateProfile(r.Context(), session.AccountID, patch)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"message": "profile updated",
		"user":    profile,
	})
}

// updateWithSellersRequest also accepts a full sellers replacement.
type updateWithSellersRequest struct {
	Sellers *[]model.Seller `json:"sellers"`
	model.ProfilePatch
}

// UpdateWithSellers handles POST /user/update: a profile patch plus an
// optional wholesale sellers replacement with per-seller validation.
func (h *UserHandler) UpdateWithSellers(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req updateWithSellersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	var sellers []model.Seller
	if req.Sellers != nil {
		sellers = *req.Sellers
		if sellers == nil {
			sellers = []model.Seller{}
		}
	}

	profile, setupCompleted, err := h.accounts.UpdateWithSellers(r.Context(), session.AccountID, sellers, req.ProfilePatch)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"message":         "profile updated",
		"user":            profile,
		"setup_completed": setupCompleted,
	})
}
