package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Config carries the base URLs of the collaborating services.
type Config struct {
	CatalogBaseURL      string
	SellerBaseURL       string
	NotificationBaseURL string
	Timeout             time.Duration
}

// Client is the outbound HTTP side of the pipeline: a synchronous category
// precondition check plus fire-and-forget post-commit notifications.
type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	url := fmt.Sprintf("%s/internal/categories/%s", c.cfg.CatalogBaseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("catalog service returned %d", resp.StatusCode)
	}
}

func (c *Client) IncrementProductCount(ctx context.Context, sellerID uuid.UUID) error {
	url := fmt.Sprintf("%s/internal/sellers/%s/product-count/increment", c.cfg.SellerBaseURL, sellerID)
	return c.post(ctx, url, nil)
}

func (c *Client) NotifyApproved(ctx context.Context, sellerID, draftID uuid.UUID, name string) error {
	url := c.cfg.NotificationBaseURL + "/internal/notifications"
	return c.post(ctx, url, map[string]interface{}{
		"recipient_id": sellerID,
		"type":         "product_approved",
		"draft_id":     draftID,
		"product_name": name,
	})
}

func (c *Client) NotifyRejected(ctx context.Context, sellerID, draftID uuid.UUID, name, reason string) error {
	url := c.cfg.NotificationBaseURL + "/internal/notifications"
	return c.post(ctx, url, map[string]interface{}{
		"recipient_id": sellerID,
		"type":         "product_rejected",
		"draft_id":     draftID,
		"product_name": name,
		"reason":       reason,
	})
}

func (c *Client) post(ctx context.Context, url string, payload interface{}) error {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned %d", url, resp.StatusCode)
	}
	return nil
}
