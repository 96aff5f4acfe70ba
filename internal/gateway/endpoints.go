package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Health probes the backend liveness endpoint (outside the versioned prefix).
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	var out TokenResponse
	if err := c.checkRequest(req); err != nil {
		return out, err
	}
	err := c.do(ctx, "auth.login", http.MethodPost, apiPrefix+"/auth/login", nil, req, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := c.checkRequest(req); err != nil {
		return err
	}
	return c.do(ctx, "auth.register", http.MethodPost, apiPrefix+"/auth/register", nil, req, nil)
}

func (c *Client) ListProducts(ctx context.Context, filters ProductFilters, page, limit int) (ProductPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	filters.apply(query)

	var out ProductPage
	err := c.do(ctx, "products.list", http.MethodGet, apiPrefix+"/products", query, nil, &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id string) (Product, error) {
	var out Product
	err := c.do(ctx, "products.detail", http.MethodGet, apiPrefix+"/products/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) SearchProducts(ctx context.Context, term string, page, limit int) (ProductPage, error) {
	query := url.Values{}
	query.Set("q", term)
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var out ProductPage
	err := c.do(ctx, "search.products", http.MethodGet, apiPrefix+"/search/products", query, nil, &out)
	return out, err
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error) {
	var out Order
	if err := c.checkRequest(req); err != nil {
		return out, err
	}
	err := c.do(ctx, "orders.create", http.MethodPost, apiPrefix+"/orders", nil, req, &out)
	return out, err
}

func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	err := c.do(ctx, "orders.my", http.MethodGet, apiPrefix+"/orders/my", nil, nil, &out)
	return out, err
}

func (c *Client) GetOrder(ctx context.Context, id string) (Order, error) {
	var out Order
	err := c.do(ctx, "orders.detail", http.MethodGet, apiPrefix+"/orders/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) AdminOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	err := c.do(ctx, "orders.admin_all", http.MethodGet, apiPrefix+"/orders/admin/all", nil, nil, &out)
	return out, err
}

func (c *Client) AdminStats(ctx context.Context) (AdminStats, error) {
	var out AdminStats
	err := c.do(ctx, "admin.stats", http.MethodGet, apiPrefix+"/admin/stats", nil, nil, &out)
	return out, err
}

// UpdateOrderStatus moves an order through its fulfillment states. The backend
// takes the new status as a query parameter.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) (Order, error) {
	query := url.Values{}
	query.Set("order_status", status)

	var out Order
	path := fmt.Sprintf("%s/admin/orders/%s/status", apiPrefix, url.PathEscape(orderID))
	err := c.do(ctx, "admin.order_status", http.MethodPut, path, query, nil, &out)
	return out, err
}

func (c *Client) UpdatePaymentStatus(ctx context.Context, orderID, status string) (Order, error) {
	query := url.Values{}
	query.Set("payment_status", status)

	var out Order
	path := fmt.Sprintf("%s/admin/orders/%s/payment-status", apiPrefix, url.PathEscape(orderID))
	err := c.do(ctx, "admin.payment_status", http.MethodPut, path, query, nil, &out)
	return out, err
}

func (c *Client) ProductReviews(ctx context.Context, productID string, approvedOnly bool, limit int) ([]Review, error) {
	query := url.Values{}
	query.Set("approved_only", strconv.FormatBool(approvedOnly))
	query.Set("limit", strconv.Itoa(limit))

	var out []Review
	path := apiPrefix + "/reviews/product/" + url.PathEscape(productID)
	err := c.do(ctx, "reviews.by_product", http.MethodGet, path, query, nil, &out)
	return out, err
}

func (c *Client) CreateReview(ctx context.Context, productID string, req CreateReviewRequest) (Review, error) {
	var out Review
	if err := c.checkRequest(req); err != nil {
		return out, err
	}
	path := apiPrefix + "/reviews/product/" + url.PathEscape(productID)
	err := c.do(ctx, "reviews.create", http.MethodPost, path, nil, req, &out)
	return out, err
}

func (c *Client) UpdateReview(ctx context.Context, reviewID string, req UpdateReviewRequest) (Review, error) {
	var out Review
	if err := c.checkRequest(req); err != nil {
		return out, err
	}
	err := c.do(ctx, "reviews.update", http.MethodPut, apiPrefix+"/reviews/"+url.PathEscape(reviewID), nil, req, &out)
	return out, err
}

func (c *Client) DeleteReview(ctx context.Context, reviewID string) error {
	return c.do(ctx, "reviews.delete", http.MethodDelete, apiPrefix+"/reviews/"+url.PathEscape(reviewID), nil, nil, nil)
}

func (c *Client) PendingReviews(ctx context.Context, limit int, includeAll bool) ([]Review, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("all_reviews", strconv.FormatBool(includeAll))

	var out []Review
	err := c.do(ctx, "reviews.pending", http.MethodGet, apiPrefix+"/reviews/admin/pending", query, nil, &out)
	return out, err
}

func (c *Client) ModerateReview(ctx context.Context, reviewID string, approve bool, moderatorComment string) (Review, error) {
	query := url.Values{}
	query.Set("is_approved", strconv.FormatBool(approve))
	if moderatorComment != "" {
		query.Set("moderator_comment", moderatorComment)
	}

	var out Review
	path := fmt.Sprintf("%s/reviews/admin/%s/moderate", apiPrefix, url.PathEscape(reviewID))
	err := c.do(ctx, "reviews.moderate", http.MethodPost, path, query, nil, &out)
	return out, err
}

func (c *Client) AdminDeleteReview(ctx context.Context, reviewID string) error {
	path := apiPrefix + "/reviews/admin/" + url.PathEscape(reviewID)
	return c.do(ctx, "reviews.admin_delete", http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) CalculatePowerBank(ctx context.Context, req PowerBankCalcRequest) (PowerBankCalcResponse, error) {
	var out PowerBankCalcResponse
	if err := c.checkRequest(req); err != nil {
		return out, err
	}
	err := c.do(ctx, "calculator.power_bank", http.MethodPost, apiPrefix+"/calculator/power-bank", nil, req, &out)
	return out, err
}

func (c *Client) CalculateUPS(ctx context.Context, req UPSCalcRequest) (UPSCalcResponse, error) {
	var out UPSCalcResponse
	if err := c.checkRequest(req); err != nil {
		return out, err
	}
	err := c.do(ctx, "calculator.ups", http.MethodPost, apiPrefix+"/calculator/ups", nil, req, &out)
	return out, err
}

func (f ProductFilters) apply(query url.Values) {
	if f.CapacityMin != nil {
		query.Set("capacity_min", strconv.Itoa(*f.CapacityMin))
	}
	if f.CapacityMax != nil {
		query.Set("capacity_max", strconv.Itoa(*f.CapacityMax))
	}
	if f.PowerMin != nil {
		query.Set("power_min", strconv.Itoa(*f.PowerMin))
	}
	if f.PowerMax != nil {
		query.Set("power_max", strconv.Itoa(*f.PowerMax))
	}
	if f.PriceMin != nil {
		query.Set("price_min", strconv.FormatFloat(*f.PriceMin, 'f', -1, 64))
	}
	if f.PriceMax != nil {
		query.Set("price_max", strconv.FormatFloat(*f.PriceMax, 'f', -1, 64))
	}
	if f.BatteryType != "" {
		query.Set("battery_type", f.BatteryType)
	}
	if f.Brand != "" {
		query.Set("brand", f.Brand)
	}
	if f.Category != "" {
		query.Set("category", f.Category)
	}
}
