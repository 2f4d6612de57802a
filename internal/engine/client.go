package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hytech_pos/internal/config"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	searchPath     = "/api/search"
	checkoutPath   = "/api/checkout"
	addProductPath = "/api/add-product"

	requestIDHeader   = "X-Request-ID"
	idempotencyHeader = "Idempotency-Key"
)

var (
	ErrNotFound       = errors.New("product not found")
	ErrDisconnected   = errors.New("engine disconnected")
	ErrEmptySKU       = errors.New("sku is empty")
	ErrMissingInvoice = errors.New("checkout response has no invoice id")
)

type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("engine api error: %s", e.Status)
	}
	return fmt.Sprintf("engine api error: %s: %s", e.Status, e.Body)
}

// Client talks to the inventory engine that owns products, stock and invoices.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.EngineURL), "/")
	if baseURL == "" {
		baseURL = config.DefaultEngineURL
	}

	logger = logger.Named("engine")

	httpClient := resty.New().
		SetLogger(logger.Named("http").Sugar()).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout).
		SetRetryCount(1).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(1 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			// Only lookups are safe to replay.
			if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
				return false
			}
			if err != nil {
				return true
			}
			return resp.StatusCode() == http.StatusTooManyRequests
		}).
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			if req.Header.Get(requestIDHeader) == "" {
				req.SetHeader(requestIDHeader, uuid.NewString())
			}
			return nil
		})

	return &Client{
		http:   httpClient,
		logger: logger,
	}
}

func (c *Client) Search(ctx context.Context, sku string) (Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return Product{}, ErrEmptySKU
	}

	var product Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("sku", sku).
		SetResult(&product).
		Get(searchPath)
	if err != nil {
		return Product{}, c.transportError("search", err)
	}
	c.logResponse("search", resp)
	if !resp.IsSuccess() {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, sku)
	}
	if product.SKU == "" {
		product.SKU = sku
	}
	return product, nil
}

// Checkout posts the cart. idempotencyKey is sent verbatim so the engine can
// collapse replays of the same sale.
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest, idempotencyKey string) (Receipt, error) {
	var receipt Receipt
	r := c.http.R().
		SetContext(ctx).
		SetBody(req.payload()).
		SetResult(&receipt)
	if idempotencyKey != "" {
		r.SetHeader(idempotencyHeader, idempotencyKey)
	}

	resp, err := r.Post(checkoutPath)
	if err != nil {
		return Receipt{}, c.transportError("checkout", err)
	}
	c.logResponse("checkout", resp)
	if !resp.IsSuccess() {
		return Receipt{}, apiErrorFromResponse(resp)
	}
	if strings.TrimSpace(receipt.InvoiceID) == "" {
		return Receipt{}, ErrMissingInvoice
	}
	return receipt, nil
}

func (c *Client) AddProduct(ctx context.Context, product NewProduct) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(product.payload()).
		Post(addProductPath)
	if err != nil {
		return c.transportError("add-product", err)
	}
	c.logResponse("add-product", resp)
	if !resp.IsSuccess() {
		return apiErrorFromResponse(resp)
	}
	return nil
}

func (c *Client) transportError(op string, err error) error {
	c.logger.Warn("engine unreachable", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %s: %w", ErrDisconnected, op, err)
}

func (c *Client) logResponse(op string, resp *resty.Response) {
	c.logger.Debug("engine response",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode()),
		zap.String("request_id", resp.Request.Header.Get(requestIDHeader)),
		zap.Duration("took", resp.Time()),
	)
}

func apiErrorFromResponse(resp *resty.Response) error {
	return &APIError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       strings.TrimSpace(resp.String()),
	}
}
