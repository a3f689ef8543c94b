package handler

import (
	"net/http"

	models "furnisure/model"
)

type paymentOrderReq struct {
	Amount  float64 `json:"amount"`
	Receipt string  `json:"receipt,omitempty"`
}

// CreatePaymentOrder handles POST /payments/order
// body: { "amount": 14999.5 } in rupees
func (h *Handler) CreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	var req paymentOrderReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	po, err := h.svc.CreatePaymentOrder(r.Context(), UserID(r.Context()), req.Amount, req.Receipt)
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, po)
}

// VerifyPayment handles POST /payments/verify. A failed verification is a
// normal 200 answer with verified=false.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyPaymentRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.VerifyPayment(req))
}

// Upload handles POST /upload (multipart, field "file") and answers { "url": ... }.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	url, err := h.svc.SaveUpload(header.Filename, file)
	if err != nil {
		writeSvcErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
