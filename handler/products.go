package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	models "furnisure/model"
)

type updateStockReq struct {
	NewStock *int `json:"new_stock"`
}

// ListProducts handles GET /products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// SearchProducts handles GET /products/search?q=
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// GetProduct handles GET /products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateProduct handles POST /products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductInput
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdateProduct handles PUT /products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductInput
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.svc.UpdateProduct(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UpdateStock handles PUT /products/{id}/stock
// body: { "new_stock": 12 }
func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req updateStockReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.NewStock == nil {
		writeErr(w, http.StatusBadRequest, "new_stock required")
		return
	}
	if err := h.svc.UpdateStock(r.Context(), mux.Vars(r)["id"], *req.NewStock); err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
