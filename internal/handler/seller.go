package handler

import (
	"encoding/json"
	"net/http"

	"supplyhub/internal/model"
	"supplyhub/internal/service"
	"supplyhub/pkg/apierror"
	"supplyhub/pkg/response"
)

// SellerHandler handles seller-related HTTP requests.
type SellerHandler struct {
	sellers *service.SellerService
}

// NewSellerHandler creates a new seller handler.
func NewSellerHandler(sellers *service.SellerService) *SellerHandler {
	return &SellerHandler{sellers: sellers}
}

// List handles GET /seller
func (h *SellerHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	sellers, err := h.sellers.List(r.Context(), session.AccountID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{"sellers": sellers})
}

// Create handles POST /seller
func (h *SellerHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var in model.Seller
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	seller, err := h.sellers.Create(r.Context(), session.AccountID, in)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{"seller": seller})
}

// Update handles PUT /seller?id=<original seller id>
func (h *SellerHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	originalID := r.URL.Query().Get("id")
	if originalID == "" {
		response.Error(w, apierror.BadRequest("seller id is required"))
		return
	}

	var in model.Seller
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	seller, err := h.sellers.Update(r.Context(), session.AccountID, originalID, in)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{"seller": seller})
}

// Delete handles DELETE /seller?id=<seller id>
func (h *SellerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	sellerID := r.URL.Query().Get("id")
	if sellerID == "" {
		response.Error(w, apierror.BadRequest("seller id is required"))
		return
	}

	if err := h.sellers.Delete(r.Context(), session.AccountID, sellerID); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]bool{"success": true})
}
