// Package reservations is the HTTP client for the external reservation
// system. It implements conflicts.Checker.
package reservations

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"horario/internal/conflicts"
	"horario/internal/document"
	"horario/internal/model"
)

// Client calls the reservation system API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	redis    *redis.Client
	cacheTTL time.Duration
}

// ConflictRequest is the body of a conflict check: the full proposed
// schedule in its stored form.
type ConflictRequest struct {
	RestaurantID string            `json:"restaurantId"`
	Schedule     document.Document `json:"schedule"`
}

// NewClient constructs a client with baseURL and API key.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// MaxCacheTTL bounds how long a conflict report is reused. Bookings change
// independently of the schedule, so a cached report can miss bookings made
// since it was fetched.
const MaxCacheTTL = 10 * time.Second

// UseRedisCache configures optional Redis caching of conflict reports.
// Reports are keyed by the exact proposed document; ttl is capped at
// MaxCacheTTL.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = min(ttl, MaxCacheTTL)
}

// CheckConflicts asks whether proposed would invalidate existing bookings.
func (c *Client) CheckConflicts(ctx context.Context, restaurantID string, proposed model.Schedule) (conflicts.Report, error) {
	body := ConflictRequest{RestaurantID: restaurantID, Schedule: document.FromSchedule(proposed)}
	data, err := json.Marshal(body)
	if err != nil {
		return conflicts.Report{}, err
	}

	sum := sha256.Sum256(data)
	cacheKey := fmt.Sprintf("conflicts:%s:%s", restaurantID, hex.EncodeToString(sum[:]))
	var report conflicts.Report
	if c.readCache(ctx, cacheKey, &report) {
		return report, nil
	}

	endpoint := fmt.Sprintf("%s/api/v1/restaurants/%s/schedule-conflicts", c.baseURL, url.PathEscape(restaurantID))
	if err := c.doPost(ctx, endpoint, data, &report); err != nil {
		return conflicts.Report{}, err
	}
	c.writeCache(ctx, cacheKey, report)
	return report, nil
}

// HealthCheck checks if the reservation API is available.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(val, out) == nil
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *Client) doPost(ctx context.Context, endpoint string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
