package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/TobiSchelling/foodpipe/internal/apperrors"
	"github.com/TobiSchelling/foodpipe/internal/config"
	"github.com/TobiSchelling/foodpipe/internal/models"
)

// Fields is the projection requested from the catalog.
var Fields = []string{
	"product_name",
	"brands",
	"categories",
	"nutriscore_grade",
	"ingredients_text",
	"nutriments",
	"countries",
	"code",
	"image_url",
}

// Client fetches product pages from the Open Food Facts search API.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewClient creates a catalog client. Empty baseURL or userAgent fall back
// to the built-in defaults.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = config.DefaultCatalogURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = config.DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// Fetch requests one page of products. It issues exactly one request and
// never retries.
func (c *Client) Fetch(ctx context.Context, page, pageSize int) ([]models.Payload, error) {
	if page < 1 {
		return nil, &apperrors.ValidationError{Field: "page", Reason: fmt.Sprintf("must be positive, got %d", page)}
	}
	if pageSize < 1 {
		return nil, &apperrors.ValidationError{Field: "page_size", Reason: fmt.Sprintf("must be positive, got %d", pageSize)}
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog URL: %w", err)
	}
	params := u.Query()
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))
	params.Set("fields", strings.Join(Fields, ","))
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &apperrors.TransportError{Op: "GET catalog page " + strconv.Itoa(page), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.UpstreamHTTPError{StatusCode: resp.StatusCode}
	}

	var result struct {
		Products []models.Payload `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding catalog page %d: %w", page, err)
	}

	if result.Products == nil {
		return []models.Payload{}, nil
	}
	return result.Products, nil
}
