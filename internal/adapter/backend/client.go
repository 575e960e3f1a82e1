package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"reviewdesk/pkg/errors"
)

// Client talks to the support-platform API: JSON bodies, bearer token,
// responses wrapped in a {status, message, data} envelope.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do performs a request and unmarshals the envelope's data field into out.
// Pass nil out for calls whose payload is irrelevant.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Internal("Failed to encode request body", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Internal("Failed to build backend request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Unavailable("Backend request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.NotFound("Resource", fmt.Errorf("backend returned 404 for %s %s", method, path))
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.Unauthorized("Backend rejected credentials", nil)
	case resp.StatusCode >= 400:
		return errors.Unavailable(fmt.Sprintf("Backend returned status %d", resp.StatusCode), nil)
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.Unavailable("Failed to decode backend response", err)
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Unavailable("Unexpected backend response shape", err)
	}

	return nil
}
