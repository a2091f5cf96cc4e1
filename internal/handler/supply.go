package handler

import (
	"encoding/json"
	"net/http"

	"supplyhub/internal/model"
	"supplyhub/internal/service"
	"supplyhub/pkg/apierror"
	"supplyhub/pkg/response"
)

// SupplyHandler handles supply-related HTTP requests.
type SupplyHandler struct {
	supplies *service.SupplyService
}

// NewSupplyHandler creates a new supply handler.
func NewSupplyHandler(supplies *service.SupplyService) *SupplyHandler {
	return &SupplyHandler{supplies: supplies}
}

// List handles GET /supply?seller_id=
func (h *SupplyHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	sellerID := r.URL.Query().Get("seller_id")
	supplies, err := h.supplies.List(r.Context(), session.AccountID, sellerID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{"supplies": supplies})
}

// Create handles POST /supply?seller_id=
func (h *SupplyHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	sellerID := r.URL.Query().Get("seller_id")

	var in model.Supply
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	supply, err := h.supplies.Create(r.Context(), session.AccountID, sellerID, in)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{"supply": supply})
}

// Update handles PUT /supply?id=&seller_id=
func (h *SupplyHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	supplyID := r.URL.Query().Get("id")
	sellerID := r.URL.Query().Get("seller_id")

	var patch model.SupplyPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	supply, err := h.supplies.Update(r.Context(), session.AccountID, sellerID, supplyID, patch)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{"supply": supply})
}

// Delete handles DELETE /supply?id=&seller_id=
func (h *SupplyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	supplyID := r.URL.Query().Get("id")
	sellerID := r.URL.Query().Get("seller_id")

	if err := h.supplies.Delete(r.Context(), session.AccountID, sellerID, supplyID); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]bool{"success": true})
}
