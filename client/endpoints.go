package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	models "furnisure/model"
)

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := c.do(ctx, http.MethodGet, "/products", false, nil, &out)
	return out, err
}

func (c *Client) SearchProducts(ctx context.Context, q string) ([]models.Product, error) {
	var out []models.Product
	err := c.do(ctx, http.MethodGet, "/products/search?q="+url.QueryEscape(q), false, nil, &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), false, nil, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodPost, "/products", true, in, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), true, in, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), true, nil, nil)
}

func (c *Client) UpdateStock(ctx context.Context, id string, stock int) error {
	body := map[string]int{"new_stock": stock}
	return c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id)+"/stock", true, body, nil)
}

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := c.do(ctx, http.MethodGet, "/orders", true, nil, &out)
	return out, err
}

func (c *Client) GetOrder(ctx context.Context, id string) (models.Order, error) {
	var out models.Order
	err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), true, nil, &out)
	return out, err
}

func (c *Client) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (models.Order, error) {
	var out models.Order
	err := c.do(ctx, http.MethodPost, "/orders", true, req, &out)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	var out models.Order
	body := map[string]models.OrderStatus{"status": status}
	err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(id)+"/status", true, body, &out)
	return out, err
}

func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	err := c.do(ctx, http.MethodGet, "/admin/customers", true, nil, &out)
	return out, err
}

func (c *Client) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var out models.DashboardStats
	err := c.do(ctx, http.MethodGet, "/admin/dashboard/stats", true, nil, &out)
	return out, err
}

func (c *Client) RecentOrders(ctx context.Context, limit int) ([]models.RecentOrder, error) {
	var out []models.RecentOrder
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/dashboard/recent-orders?limit=%d", limit), true, nil, &out)
	return out, err
}

func (c *Client) LowStock(ctx context.Context, limit int) ([]models.LowStockItem, error) {
	var out []models.LowStockItem
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/dashboard/low-stock?limit=%d", limit), true, nil, &out)
	return out, err
}

func (c *Client) Profile(ctx context.Context) (models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodGet, "/auth/profile", true, nil, &out)
	return out, err
}

func (c *Client) ProfileOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := c.do(ctx, http.MethodGet, "/auth/profile/orders", true, nil, &out)
	return out, err
}

func (c *Client) SyncUser(ctx context.Context, req models.SyncUserRequest) (models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodPost, "/auth/users/sync", true, req, &out)
	return out, err
}

func (c *Client) CreatePaymentOrder(ctx context.Context, amount float64) (models.PaymentOrder, error) {
	var out models.PaymentOrder
	body := map[string]float64{"amount": amount}
	err := c.do(ctx, http.MethodPost, "/payments/order", true, body, &out)
	return out, err
}

func (c *Client) VerifyPayment(ctx context.Context, req models.VerifyPaymentRequest) (models.VerifyPaymentResponse, error) {
	var out models.VerifyPaymentResponse
	err := c.do(ctx, http.MethodPost, "/payments/verify", true, req, &out)
	return out, err
}

// Upload sends one file as multipart field "file" and returns its URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", true, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out struct {
		URL string `json:"url"`
	}
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
