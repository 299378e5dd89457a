package evaluator

import (
	"context"
	"net/http"
	"net/url"

	"bundle-admin/internal/httpclient"
	"bundle-admin/internal/models"
)

// Client habla con el backend de evaluación de descuentos. Es un contrato
// consumido: la lógica real de matching y emisión de cupones vive allá
type Client struct {
	api *httpclient.Client
}

// NewClient crea el cliente del evaluador
func NewClient(baseURL, token string) *Client {
	return &Client{api: httpclient.New(baseURL, token)}
}

type evaluateRequest struct {
	Items []models.CartItem `json:"items"`
}

// Evaluate evalúa el carrito hipotético contra los bundles activos.
// createCoupon pide además la emisión de un cupón aplicable
func (c *Client) Evaluate(ctx context.Context, items []models.CartItem, createCoupon bool) (*models.EvaluationResult, error) {
	query := url.Values{}
	if createCoupon {
		query.Set("createCoupon", "true")
	} else {
		query.Set("createCoupon", "false")
	}

	var res models.EvaluationResult
	if err := c.api.DoJSON(ctx, http.MethodPost, "/bundles/evaluate", query, evaluateRequest{Items: items}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CartBanner trae el banner en vivo para el carrito
func (c *Client) CartBanner(ctx context.Context, items []models.CartItem) (*models.CartBanner, error) {
	var res models.CartBanner
	if err := c.api.DoJSON(ctx, http.MethodPost, "/bundles/cart-banner", nil, evaluateRequest{Items: items}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
