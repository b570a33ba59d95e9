package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ad-moderation/pkg/config"
	"ad-moderation/pkg/logger"
	"ad-moderation/pkg/models"
)

// DefaultTimeout is used when the configuration does not set one.
const DefaultTimeout = 15 * time.Second

// StatusError is returned when the ads API answers with a non-2xx status.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client talks to the ads backend (listing, decisions and stats).
type Client struct {
	client  *http.Client
	baseURL string
	token   string
	logger  *logger.Logger
}

func NewClient(cfg *config.Config, logger *logger.Logger) *Client {
	timeout := cfg.AdsAPITimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := newClient(
		&http.Client{Timeout: timeout},
		cfg.AdsAPIURL,
		cfg.AdsAPIToken,
	)
	c.logger = logger
	return c
}

// newClient lets tests inject an http.Client and the base URL of an httptest server.
func newClient(client *http.Client, baseURL, token string) *Client {
	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// ListAds returns the ads page. A response without an ads array is an empty list.
// Records that cannot be decoded are skipped so one bad ad does not hide the rest.
func (c *Client) ListAds(ctx context.Context, filter models.ListFilter) ([]models.Ad, error) {
	query := url.Values{}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}

	var body struct {
		Ads json.RawMessage `json:"ads"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/ads", query, nil, &body); err != nil {
		return nil, err
	}

	ads := []models.Ad{}
	raw := bytes.TrimSpace(body.Ads)
	if len(raw) == 0 || raw[0] != '[' {
		return ads, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode ads: %w", err)
	}
	for i, record := range records {
		var ad models.Ad
		if err := json.Unmarshal(record, &ad); err != nil {
			if c.logger != nil {
				c.logger.Warn("Skipping ad record %d: %v", i, err)
			}
			continue
		}
		ads = append(ads, ad)
	}
	return ads, nil
}

func (c *Client) ApproveAd(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, adPath(id, "approve"), nil, nil, nil)
}

func (c *Client) RejectAd(ctx context.Context, id int64, feedback models.DecisionFeedback) error {
	return c.do(ctx, http.MethodPost, adPath(id, "reject"), nil, feedback, nil)
}

func (c *Client) RequestChanges(ctx context.Context, id int64, feedback models.DecisionFeedback) error {
	return c.do(ctx, http.MethodPost, adPath(id, "request-changes"), nil, feedback, nil)
}

func (c *Client) Summary(ctx context.Context, period models.Period) (models.StatsSummary, error) {
	var summary models.StatsSummary
	err := c.do(ctx, http.MethodGet, "/api/v1/stats/summary", periodQuery(period), nil, &summary)
	return summary, err
}

func (c *Client) Activity(ctx context.Context, period models.Period) ([]models.ActivityPoint, error) {
	points := []models.ActivityPoint{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/stats/chart/activity", periodQuery(period), nil, &points); err != nil {
		return nil, err
	}
	if points == nil {
		points = []models.ActivityPoint{}
	}
	return points, nil
}

func (c *Client) Decisions(ctx context.Context, period models.Period) (models.DecisionBreakdown, error) {
	var decisions models.DecisionBreakdown
	err := c.do(ctx, http.MethodGet, "/api/v1/stats/chart/decisions", periodQuery(period), nil, &decisions)
	return decisions, err
}

func (c *Client) Categories(ctx context.Context, period models.Period) (models.CategoryBreakdown, error) {
	categories := models.CategoryBreakdown{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/stats/chart/categories", periodQuery(period), nil, &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = models.CategoryBreakdown{}
	}
	return categories, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return &StatusError{
			Method: method,
			Path:   path,
			Code:   res.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func adPath(id int64, action string) string {
	return fmt.Sprintf("/api/v1/ads/%d/%s", id, action)
}

func periodQuery(period models.Period) url.Values {
	return url.Values{"period": []string{string(period)}}
}
