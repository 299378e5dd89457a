package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Código de error que devuelve el backend cuando la validación de activación
// encuentra referencias irresolubles
const CodeVariantsInvalid = "BUNDLE_VARIANTS_INVALID"

// HTTPError es un error tipado de una respuesta no-2xx de un backend externo.
// Carga el status, el código de error de la aplicación y, para errores de
// validación, la lista de referencias inválidas
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Invalid []string
}

func (e *HTTPError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend request failed: %d %s", e.Status, e.Code)
	}
	return fmt.Sprintf("backend request failed: %d", e.Status)
}

// IsAuth indica fallo de autenticación (401/403): terminal para la sesión,
// nunca se reintenta
func IsAuth(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && (he.Status == http.StatusUnauthorized || he.Status == http.StatusForbidden)
}

// IsRateLimited indica un 429: se avisa al usuario tal cual, sin backoff
// automático
func IsRateLimited(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == http.StatusTooManyRequests
}

// IsNotFound indica un 404 del backend
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == http.StatusNotFound
}

// VariantsInvalid extrae la lista de referencias inválidas de un error de
// validación BUNDLE_VARIANTS_INVALID
func VariantsInvalid(err error) ([]string, bool) {
	var he *HTTPError
	if errors.As(err, &he) && he.Code == CodeVariantsInvalid {
		return he.Invalid, true
	}
	return nil, false
}

// Client es un cliente JSON con credencial bearer contra un backend externo
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New crea el cliente. El timeout acota cada request individual; la política
// de reintentos es del usuario, no de esta capa
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type errorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
	Invalid []string `json:"invalid"`
	Details struct {
		Invalid []string `json:"invalid"`
	} `json:"details"`
}

// DoJSON ejecuta un request JSON autenticado y decodifica la respuesta en
// out (puede ser nil). Respuestas no-2xx se devuelven como *HTTPError
func (c *Client) DoJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		he := &HTTPError{Status: res.StatusCode}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			he.Code = eb.Code
			he.Message = eb.Error
			if he.Message == "" {
				he.Message = eb.Message
			}
			he.Invalid = eb.Invalid
			if len(he.Invalid) == 0 {
				he.Invalid = eb.Details.Invalid
			}
		}
		return he
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
