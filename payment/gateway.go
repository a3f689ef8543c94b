package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	models "furnisure/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Gateway creates hosted-checkout orders and verifies the signature the
// hosted widget hands back after payment.
type Gateway interface {
	CreateOrder(ctx context.Context, amount float64, receipt string) (models.PaymentOrder, error)
	Verify(orderID, paymentID, signature string) bool
}

type RazorpayGateway struct {
	KeyID     string
	KeySecret string
	APIURL    string
	Currency  string
	Client    *http.Client
}

func NewRazorpayGateway(keyID, keySecret, apiURL, currency string) *RazorpayGateway {
	return &RazorpayGateway{
		KeyID:     keyID,
		KeySecret: keySecret,
		APIURL:    strings.TrimRight(apiURL, "/"),
		Currency:  currency,
		Client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type createOrderPayload struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

type gatewayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// ToMinorUnits converts rupees to paise, rounding to the nearest paisa.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateOrder registers an order of amount (in rupees) with the gateway.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount float64, receipt string) (models.PaymentOrder, error) {
	if g.KeyID == "" || g.KeySecret == "" {
		return models.PaymentOrder{}, fmt.Errorf("payment gateway configuration missing")
	}
	if amount <= 0 {
		return models.PaymentOrder{}, fmt.Errorf("amount must be > 0")
	}

	body, _ := json.Marshal(createOrderPayload{
		Amount:   ToMinorUnits(amount),
		Currency: g.Currency,
		Receipt:  receipt,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.APIURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return models.PaymentOrder{}, err
	}
	req.SetBasicAuth(g.KeyID, g.KeySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return models.PaymentOrder{}, fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		var ge gatewayError
		if json.Unmarshal(raw, &ge) == nil && ge.Error.Description != "" {
			return models.PaymentOrder{}, fmt.Errorf("payment gateway error (%d): %s", resp.StatusCode, ge.Error.Description)
		}
		return models.PaymentOrder{}, fmt.Errorf("payment gateway error (%d): %s", resp.StatusCode, string(raw))
	}

	var po models.PaymentOrder
	if err := json.Unmarshal(raw, &po); err != nil {
		return models.PaymentOrder{}, fmt.Errorf("failed to parse payment gateway response: %w", err)
	}
	if po.ID == "" {
		return models.PaymentOrder{}, fmt.Errorf("payment gateway returned empty order id")
	}
	po.KeyID = g.KeyID
	zap.S().Infow("gateway order created", "gateway_order_id", po.ID, "amount", po.Amount, "receipt", receipt)
	return po, nil
}

// Verify checks the widget signature: hex(HMAC-SHA256(orderID|paymentID, secret)).
func (g *RazorpayGateway) Verify(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := Sign(g.KeySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// Sign computes the signature the gateway attaches to a completed payment.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
