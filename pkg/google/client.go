package google

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/harrisonrobin/planner/pkg/auth"
)

// Dial authorizes with a and returns a calendar client.
func Dial(ctx context.Context, a *auth.Authenticator, logger *zap.Logger) (*Client, error) {
	httpClient, err := a.Client(ctx)
	if err != nil {
		return nil, err
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %w", err)
	}
	return NewClient(srv, logger), nil
}

// NewClient wraps an existing Calendar service.
func NewClient(srv *calendar.Service, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{srv: srv, logger: logger}
}
