package sampledata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/passmap/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// do sends a request and decodes a JSON reply into out when out is not nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrSmokeCheck, method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

type option struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

type sessionView struct {
	ID       string `json:"id"`
	Rendered bool   `json:"rendered"`
	Filter   struct {
		TriggerEnabled bool `json:"trigger_enabled"`
	} `json:"filter"`
	Figure struct {
		Data []struct {
			X []float64 `json:"x"`
		} `json:"data"`
	} `json:"figure"`
}

// SmokeCheck drives a running dashboard through one by-aggregate cycle: pick the
// best aggregated player, plot, export. It fails when nothing gets drawn.
func SmokeCheck(ctx context.Context, cfg Config, stats *Stats) error {
	c := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	log := logger.Get()

	if err := c.do(ctx, http.MethodGet, "/readyz", nil, StatusOK, nil); err != nil {
		return fmt.Errorf("service not ready: %w", err)
	}

	var catalogs struct {
		Catalogs map[string][]option `json:"catalogs"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/catalogs", nil, StatusOK, &catalogs); err != nil {
		return err
	}
	aggPlayers := catalogs.Catalogs["agg_player"]
	if len(aggPlayers) == 0 {
		return fmt.Errorf("%w: no aggregated players", ErrSmokeCheck)
	}

	var sess sessionView
	if err := c.do(ctx, http.MethodPost, "/api/sessions", nil, StatusCreated, &sess); err != nil {
		return err
	}
	base := "/api/sessions/" + sess.ID
	defer func() {
		_ = c.do(context.Background(), http.MethodDelete, base, nil, http.StatusNoContent, nil)
	}()

	events := []map[string]any{
		{"type": "tab_changed", "mode": "by_aggregate"},
		{"type": "filter_changed", "dimension": "agg_player", "value": aggPlayers[0].Value},
		{"type": "render_requested", "range": []float64{-1, 1}},
	}
	for _, ev := range events {
		if err := c.do(ctx, http.MethodPost, base+"/events", ev, StatusOK, &sess); err != nil {
			return err
		}
	}
	if !sess.Rendered || len(sess.Figure.Data) == 0 || len(sess.Figure.Data[0].X) == 0 {
		return fmt.Errorf("%w: %s drew nothing", ErrSmokeCheck, aggPlayers[0].Label)
	}
	if err := c.do(ctx, http.MethodGet, base+"/plot.png", nil, StatusOK, nil); err != nil {
		return err
	}

	if stats != nil {
		stats.SmokeMarkers = len(sess.Figure.Data[0].X)
	}
	log.Info(ctx, "dashboard smoke check passed",
		logger.String("player", aggPlayers[0].Label),
		logger.Int("markers", len(sess.Figure.Data[0].X)))
	return nil
}
