package api

import (
	"context"
	"time"
)

// QueryTimeout is the default timeout for a single store call
const QueryTimeout = 10 * time.Second

// WithQueryTimeout derives a context bounded by QueryTimeout. An earlier deadline on
// parent still wins.
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}
