package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"bundle-admin/internal/httpclient"
	"bundle-admin/internal/models"
)

// Prefijo de una referencia a nivel producto: "cualquier variant de este
// producto califica"
const ProductRefPrefix = "product:"

// IsProductRef indica si la referencia es un wildcard a nivel producto
func IsProductRef(ref string) bool {
	return strings.HasPrefix(strings.TrimSpace(ref), ProductRefPrefix)
}

// ProductRef arma la referencia a nivel producto para un product id
func ProductRef(productID string) string {
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ""
	}
	return ProductRefPrefix + pid
}

// ProductIDFromRef extrae el product id de una referencia a nivel producto
func ProductIDFromRef(ref string) string {
	return strings.TrimPrefix(strings.TrimSpace(ref), ProductRefPrefix)
}

// Client es el cliente de solo lectura contra el catálogo del storefront.
// Precio, stock y estado de activación viven allá; acá nunca se mutan
type Client struct {
	api *httpclient.Client
}

// NewClient crea el cliente del catálogo
func NewClient(baseURL, token string) *Client {
	return &Client{api: httpclient.New(baseURL, token)}
}

type productResponse struct {
	Product models.Product `json:"product"`
}

type variantResponse struct {
	Variant models.VariantMetadata `json:"variant"`
}

// GetProduct trae el detalle de un producto, usado para enumerar variants
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var res productResponse
	path := "/products/" + url.PathEscape(strings.TrimSpace(id))
	if err := c.api.DoJSON(ctx, http.MethodGet, path, nil, nil, &res); err != nil {
		return nil, err
	}
	return &res.Product, nil
}

// GetVariant trae la metadata de un variant específico
func (c *Client) GetVariant(ctx context.Context, ref string) (*models.VariantMetadata, error) {
	var res variantResponse
	path := "/variants/" + url.PathEscape(strings.TrimSpace(ref))
	if err := c.api.DoJSON(ctx, http.MethodGet, path, nil, nil, &res); err != nil {
		return nil, err
	}
	return &res.Variant, nil
}

// ValidateRefs verifica que cada referencia resuelva contra el catálogo en
// vivo. Gatea la activación de un bundle: las referencias irresolubles se
// juntan en un error BUNDLE_VARIANTS_INVALID con la lista completa, para que
// el draft pueda corregirse sin perderse
func (c *Client) ValidateRefs(ctx context.Context, refs []string) error {
	seen := map[string]bool{}
	var invalid []string
	for _, raw := range refs {
		ref := strings.TrimSpace(raw)
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true

		var err error
		if IsProductRef(ref) {
			_, err = c.GetProduct(ctx, ProductIDFromRef(ref))
		} else {
			_, err = c.GetVariant(ctx, ref)
		}
		if err == nil {
			continue
		}
		if httpclient.IsNotFound(err) {
			invalid = append(invalid, ref)
			continue
		}
		return err
	}

	if len(invalid) > 0 {
		return &httpclient.HTTPError{
			Status:  http.StatusUnprocessableEntity,
			Code:    httpclient.CodeVariantsInvalid,
			Message: "bundle references could not be resolved",
			Invalid: invalid,
		}
	}
	return nil
}
