package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"woocrm/internal/config"
)

// Amount decodes WooCommerce monetary fields, which arrive as JSON strings
// on some endpoints and as raw numbers on others.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", s, err)
	}
	*a = Amount(f)
	return nil
}

type Address struct {
	FirstName string `json:"first_name" bson:"first_name"`
	LastName  string `json:"last_name" bson:"last_name"`
	Company   string `json:"company" bson:"company"`
	Address1  string `json:"address_1" bson:"address_1"`
	Address2  string `json:"address_2" bson:"address_2"`
	City      string `json:"city" bson:"city"`
	State     string `json:"state" bson:"state"`
	Postcode  string `json:"postcode" bson:"postcode"`
	Country   string `json:"country" bson:"country"`
	Email     string `json:"email" bson:"email"`
	Phone     string `json:"phone" bson:"phone"`
}

type Customer struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Username     string  `json:"username"`
	Billing      Address `json:"billing"`
	Shipping     Address `json:"shipping"`
	TotalSpent   Amount  `json:"total_spent"`
	OrdersCount  int     `json:"orders_count"`
	DateCreated  string  `json:"date_created"`
	DateModified string  `json:"date_modified"`
}

type Term struct {
	ID   int64  `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
	Slug string `json:"slug" bson:"slug"`
}

type Product struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	SKU              string `json:"sku"`
	Price            Amount `json:"price"`
	RegularPrice     Amount `json:"regular_price"`
	SalePrice        Amount `json:"sale_price"`
	Status           string `json:"status"`
	Description      string `json:"description"`
	ShortDescription string `json:"short_description"`
	Categories       []Term `json:"categories"`
	Tags             []Term `json:"tags"`
	StockQuantity    *int   `json:"stock_quantity"`
	StockStatus      string `json:"stock_status"`
	DateCreated      string `json:"date_created"`
	DateModified     string `json:"date_modified"`
}

type LineItem struct {
	ID        int64  `json:"id" bson:"id"`
	Name      string `json:"name" bson:"name"`
	ProductID int64  `json:"product_id" bson:"product_id"`
	SKU       string `json:"sku" bson:"sku"`
	Quantity  int    `json:"quantity" bson:"quantity"`
	Price     Amount `json:"price" bson:"price"`
	Total     Amount `json:"total" bson:"total"`
}

type Order struct {
	ID                 int64      `json:"id"`
	Number             string     `json:"number"`
	CustomerID         int64      `json:"customer_id"`
	Status             string     `json:"status"`
	Currency           string     `json:"currency"`
	Total              Amount     `json:"total"`
	TotalTax           Amount     `json:"total_tax"`
	ShippingTotal      Amount     `json:"shipping_total"`
	PaymentMethod      string     `json:"payment_method"`
	PaymentMethodTitle string     `json:"payment_method_title"`
	Billing            Address    `json:"billing"`
	Shipping           Address    `json:"shipping"`
	LineItems          []LineItem `json:"line_items"`
	DateCreated        string     `json:"date_created"`
	DateModified       string     `json:"date_modified"`
	DateCompleted      string     `json:"date_completed"`
}

type StoreInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"URL"`
	WCVersion   string `json:"wc_version"`
}

// ListParams are the query parameters of a paginated catalog request.
type ListParams struct {
	Page          int
	PerPage       int
	OrderBy       string
	Order         string
	ModifiedAfter time.Time // zero means no cutoff
}

// APIError is a non-200 response. The sync log records both status and body,
// since the body is the only diagnostic the remote side gives us.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("WooCommerce API error: %d - %s", e.Status, e.Body)
}

type Client interface {
	Available() bool
	ListCustomers(ctx context.Context, params ListParams) ([]Customer, error)
	ListProducts(ctx context.Context, params ListParams) ([]Product, error)
	ListOrders(ctx context.Context, params ListParams) ([]Order, error)
	TestConnection(ctx context.Context) (*StoreInfo, error)
}

type HTTPClient struct {
	baseURL string
	key     string
	secret  string
	http    *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(cfg.WooCommerceURL, "/"),
		key:     cfg.WooCommerceKey,
		secret:  cfg.WooCommerceSecret,
		http: &http.Client{
			Timeout: 50 * time.Second,
		},
	}
}

func (c *HTTPClient) Available() bool {
	return c.baseURL != "" && c.key != "" && c.secret != ""
}

func (c *HTTPClient) get(ctx context.Context, resource string, params *ListParams, out interface{}) error {
	url := fmt.Sprintf("%s/wp-json/wc/v3/%s", c.baseURL, resource)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.key, c.secret)

	if params != nil {
		q := req.URL.Query()
		q.Set("per_page", strconv.Itoa(params.PerPage))
		q.Set("page", strconv.Itoa(params.Page))
		q.Set("orderby", params.OrderBy)
		q.Set("order", params.Order)
		if !params.ModifiedAfter.IsZero() {
			q.Set("modified_after", params.ModifiedAfter.Format("2006-01-02T15:04:05"))
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return json.Unmarshal(body, out)
}

func (c *HTTPClient) ListCustomers(ctx context.Context, params ListParams) ([]Customer, error) {
	var customers []Customer
	if err := c.get(ctx, "customers", &params, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *HTTPClient) ListProducts(ctx context.Context, params ListParams) ([]Product, error) {
	var products []Product
	if err := c.get(ctx, "products", &params, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *HTTPClient) ListOrders(ctx context.Context, params ListParams) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, "orders", &params, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *HTTPClient) TestConnection(ctx context.Context) (*StoreInfo, error) {
	var root struct {
		Store StoreInfo `json:"store"`
	}
	if err := c.get(ctx, "", nil, &root); err != nil {
		return nil, err
	}
	return &root.Store, nil
}

// parseTime handles the date formats the WooCommerce API emits, with and
// without a timezone suffix.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
