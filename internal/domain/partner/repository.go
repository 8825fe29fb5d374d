package partner

import (
	"context"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientFilter defines filtering options for client queries
type ClientFilter struct {
	shared.Filter
	Search string // Match against name or email
}

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindAll lists clients with filtering and pagination
	FindAll(ctx context.Context, filter ClientFilter) ([]Client, error)

	// Count counts clients matching the filter
	Count(ctx context.Context, filter ClientFilter) (int64, error)

	// Save creates or updates a client
	Save(ctx context.Context, client *Client) error

	// Delete removes a client
	Delete(ctx context.Context, id uuid.UUID) error
}
