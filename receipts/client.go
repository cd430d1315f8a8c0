package receipts

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"freshcart/globals"
	"freshcart/toast"
)

// Client fetches receipts from the storefront API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// Download fetches the receipt of orderID on behalf of session behind a
// loading toast that resolves to success or failure. Failures are not
// retried.
func (c *Client) Download(ctx context.Context, t *toast.Toaster, session, orderID string) ([]byte, error) {
	return toast.Promise(ctx, t, func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, session, orderID)
	}, toast.Messages[[]byte]{
		Loading: "Downloading receipt...",
		Success: func([]byte) string { return "Receipt downloaded" },
		Error:   func(error) string { return "Failed to download receipt" },
	}, toast.Options{Description: "Order #" + orderID})
}

func (c *Client) fetch(ctx context.Context, session, orderID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/orders/%s/receipt", c.BaseURL, orderID), nil)
	if err != nil {
		return nil, err
	}
	if session != "" {
		req.Header.Set(globals.SessionHeader, session)
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch receipt: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch receipt: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
