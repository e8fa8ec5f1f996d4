package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around resty.Client preconfigured for the notes API.
// It embeds *resty.Client to expose all of its methods directly.
//
// Example usage:
//
//	client := utils.NewHTTPClient("http://localhost:5000", 10*time.Second)
//	resp, err := client.R().Get("/notes")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a client that resolves relative request paths against
// baseURL, sends and accepts JSON, and aborts requests after timeout.
// A zero timeout means no client-side timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPClient{Client: client}
}

// SetBearerToken attaches the session token to every subsequent request.
func (c *HTTPClient) SetBearerToken(token string) *HTTPClient {
	c.SetAuthScheme("Bearer")
	c.SetAuthToken(token)
	return c
}
