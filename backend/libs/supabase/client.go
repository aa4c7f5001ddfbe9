// Package supabase is a small client for the hosted auth and row API the
// calculator stores its users and calculations in.
package supabase

import (
	"errors"
	"strings"
)

// Client bundles the auth and row APIs of one project.
type Client struct {
	Auth *AuthClient
	Rest *RestClient
}

// NewClient validates the endpoint settings and builds a client.
// A nil httpClient selects NewDefaultHTTPClient.
func NewClient(url, apiKey string, httpClient HTTPDoer) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("supabase: url is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("supabase: api key is required")
	}
	base := NewBaseClient(url, apiKey, httpClient)
	return &Client{
		Auth: NewAuthClient(base),
		Rest: NewRestClient(base),
	}, nil
}
