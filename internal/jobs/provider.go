package jobs

import (
	"context"
	"net/http"
	"time"
)

// Provider queries one job board.
type Provider interface {
	Name() string
	Enabled() bool
	Search(ctx context.Context, query, location string) ([]Job, error)
}

const defaultHTTPTimeout = 20 * time.Second

func defaultHTTPClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}
