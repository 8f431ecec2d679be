package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"leagueboard/internal/metrics"
)

// APIError represents an error response from the stats API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stats api error %d: %s", e.StatusCode, e.Message)
}

// doRequest performs a GET against path. A scoreboard or summary failure is
// surfaced to the caller as-is; there is no retry layer, the caller decides
// whether the request as a whole fails or one game is skipped.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// get performs a GET request and decodes the response into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

// Scoreboard fetches the current NFL scoreboard.
func (c *Client) Scoreboard(ctx context.Context) (Scoreboard, error) {
	var sb Scoreboard
	err := c.get(ctx, scoreboardPath, nil, &sb)
	metrics.UpstreamRequests.WithLabelValues("scoreboard", outcome(err)).Inc()
	if err != nil {
		return Scoreboard{}, err
	}
	return sb, nil
}

// GameSummary fetches the detailed boxscore for one event.
func (c *Client) GameSummary(ctx context.Context, eventID string) (Summary, error) {
	query := url.Values{"event": {eventID}}
	var s Summary
	err := c.get(ctx, summaryPath, query, &s)
	metrics.UpstreamRequests.WithLabelValues("summary", outcome(err)).Inc()
	if err != nil {
		return Summary{}, err
	}
	return s, nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
