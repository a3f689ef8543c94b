package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	models "furnisure/model"
)

type updateStatusReq struct {
	Status models.OrderStatus `json:"status"`
}

// CreateOrder handles POST /orders for the authenticated customer.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	o, err := h.svc.CreateOrder(r.Context(), UserID(r.Context()), req)
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// ListOrders handles GET /orders (admin)
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListOrders(r.Context())
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GetOrder handles GET /orders/{id}; owners and admins only.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.GetOrder(r.Context(), mux.Vars(r)["id"], UserID(r.Context()))
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// UpdateOrderStatus handles PUT /orders/{id}/status
// body: { "status": "dispatched" }
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	o, err := h.svc.UpdateOrderStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
