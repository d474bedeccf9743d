package wholesale

import (
	"encoding/json"
	"net/http"

	"github.com/fas-supply/backend-wholesale/internal/common"
)

// Handler wires the wholesale service to HTTP.
type Handler struct {
	Svc *Service
}

// PriceCart handles POST /wholesale/pricing.
func (h *Handler) PriceCart(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "wholesale service not configured")
		return
	}
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	quote, err := h.Svc.PriceCart(r.Context(), r.Header.Get("Authorization"), req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, quote)
}

// PlaceOrder handles POST /wholesale/orders.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "wholesale service not configured")
		return
	}
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	result, err := h.Svc.PlaceOrder(r.Context(), r.Header.Get("Authorization"), req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, result)
}

// ListOrders handles GET /wholesale/orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "wholesale service not configured")
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	history, err := h.Svc.OrderHistory(r.Context(), r.Header.Get("Authorization"), page, perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, history)
}

// ListProducts handles GET /wholesale/products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "wholesale service not configured")
		return
	}
	listing, err := h.Svc.ListProducts(r.Context(), r.Header.Get("Authorization"), r.URL.Query())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, listing)
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (Request, bool) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "invalid request body")
		return Request{}, false
	}
	return req, true
}
