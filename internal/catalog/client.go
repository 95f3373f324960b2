// Package catalog forwards product CRUD calls to the external catalog API.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const productsPath = "/products"

var (
	ErrNetwork  = errors.New("catalog api unreachable")
	ErrNotFound = errors.New("product not found")
)

// StatusError is a non-2xx answer other than 404.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog %s: unexpected status %d: %s", e.Op, e.Status, e.Body)
}

type Client struct {
	API *resty.Client
}

// productPayload is the body of create and update; the API assigns ids.
type productPayload struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

func payloadOf(p models.Product) productPayload {
	return productPayload{
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
	}
}

func productPath(id int) string {
	return productsPath + "/" + strconv.Itoa(id)
}

func (c *Client) ListAll(ctx context.Context) ([]models.Product, error) {
	body, err := c.do(ctx, "list", http.MethodGet, productsPath, nil)
	if err != nil {
		return nil, err
	}
	var items []models.Product
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("catalog list: decode: %w", err)
	}
	return items, nil
}

func (c *Client) GetByID(ctx context.Context, id int) (*models.Product, error) {
	body, err := c.do(ctx, "get", http.MethodGet, productPath(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeOne("get", body)
}

func (c *Client) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	body, err := c.do(ctx, "create", http.MethodPost, productsPath, payloadOf(p))
	if err != nil {
		return nil, err
	}
	return decodeOne("create", body)
}

func (c *Client) Update(ctx context.Context, id int, p models.Product) (*models.Product, error) {
	body, err := c.do(ctx, "update", http.MethodPut, productPath(id), payloadOf(p))
	if err != nil {
		return nil, err
	}
	return decodeOne("update", body)
}

// Delete returns the product as the API reports it after removal.
func (c *Client) Delete(ctx context.Context, id int) (*models.Product, error) {
	body, err := c.do(ctx, "delete", http.MethodDelete, productPath(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeOne("delete", body)
}

func (c *Client) do(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	l := logging.FromContext(ctx).With("svc", "catalog."+op, "path", path)

	req := c.API.R().SetContext(ctx)
	if payload != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(payload)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			l.Warn("catalog_request_cancelled", "error", ctxErr)
			return nil, fmt.Errorf("catalog %s: %w", op, ctxErr)
		}
		l.Error("catalog_request_failed", "reason", "transport", "error", err)
		return nil, fmt.Errorf("catalog %s: %w: %v", op, ErrNetwork, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		l.Warn("catalog_request_failed", "status", resp.StatusCode(), "reason", "not found")
		return nil, ErrNotFound
	case !resp.IsSuccess():
		l.Error("catalog_request_failed", "status", resp.StatusCode(), "reason", "unexpected status")
		return nil, &StatusError{Op: op, Status: resp.StatusCode(), Body: resp.String()}
	}

	l.Debug("catalog_request_done", "status", resp.StatusCode(), "bytes", len(resp.Body()))
	return resp.Body(), nil
}

// decodeOne treats an empty body or a JSON null as a missing product; that is how the API answers unknown ids.
func decodeOne(op string, body []byte) (*models.Product, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrNotFound
	}
	var p models.Product
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("catalog %s: decode: %w", op, err)
	}
	return &p, nil
}
