package handler

import (
	"net/http"
	"strconv"

	models "furnisure/model"
)

// Profile handles GET /auth/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Profile(r.Context(), UserID(r.Context()))
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ProfileOrders handles GET /auth/profile/orders
func (h *Handler) ProfileOrders(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListUserOrders(r.Context(), UserID(r.Context()))
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// SyncUser handles POST /auth/users/sync
// body: { "clerkId": "...", "email": "...", "fullName": "..." }
func (h *Handler) SyncUser(w http.ResponseWriter, r *http.Request) {
	var req models.SyncUserRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	u, err := h.svc.SyncUser(r.Context(), UserID(r.Context()), req)
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ListCustomers handles GET /admin/customers
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	cs, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// DashboardStats handles GET /admin/dashboard/stats
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.DashboardStats(r.Context())
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// RecentOrders handles GET /admin/dashboard/recent-orders?limit=
func (h *Handler) RecentOrders(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.RecentOrders(r.Context(), queryLimit(r))
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// LowStock handles GET /admin/dashboard/low-stock?limit=
func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.LowStock(r.Context(), queryLimit(r))
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// queryLimit returns 0 (service default) for a missing or bad limit.
func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
