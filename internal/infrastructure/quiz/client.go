// Package quiz resolves quiz display names from the quiz backend.
package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quizm/users-service/internal/core/ports"
)

const defaultLookupTimeout = 2 * time.Second

// Client calls GET {base}/api/v1/quizzes/{id} on the quiz backend.
type Client struct {
	base    string
	timeout time.Duration
	http    *http.Client
}

// NewClient returns a client for baseURL. An empty baseURL yields a client
// whose lookups always fail with ports.ErrQuizNameUnavailable.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
}

type quizResponse struct {
	Data struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

func (c *Client) QuizName(ctx context.Context, quizID int64) (string, error) {
	if c.base == "" {
		return "", ports.ErrQuizNameUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/v1/quizzes/%d", c.base, quizID), nil)
	if err != nil {
		return "", fmt.Errorf("quiz lookup: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("quiz lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: quiz %d: backend returned %d", ports.ErrQuizNameUnavailable, quizID, resp.StatusCode)
	}

	var body quizResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return "", fmt.Errorf("quiz lookup: decode: %w", err)
	}
	if body.Data.Name == "" {
		return "", fmt.Errorf("%w: quiz %d has no name", ports.ErrQuizNameUnavailable, quizID)
	}
	return body.Data.Name, nil
}
