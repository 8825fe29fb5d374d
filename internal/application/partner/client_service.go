// Package partner contains the application services for client management.
package partner

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yousefaborizk/moonstar/internal/domain/billing"
	"github.com/Yousefaborizk/moonstar/internal/domain/partner"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
)

// csvHeader is the first row of every client export
var csvHeader = []string{"Name", "Email", "Phone", "Address"}

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo  partner.ClientRepository
	invoiceRepo billing.InvoiceRepository
	logger      *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(
	clientRepo partner.ClientRepository,
	invoiceRepo billing.InvoiceRepository,
	logger *zap.Logger,
) *ClientService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientService{
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, fmt.Errorf("saving client: %w", err)
	}

	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves clients matching the filter with pagination
func (s *ClientService) List(ctx context.Context, filter ClientListFilter) (*shared.Paginated[ClientResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := partner.ClientFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		Search: filter.Search,
	}

	clients, err := s.clientRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.clientRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, ToClientResponse(&clients[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update updates a client's contact details
func (s *ClientService) Update(ctx context.Context, clientID uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if err := client.Update(req.Name, req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, fmt.Errorf("saving client: %w", err)
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Delete removes a client. Deletion is refused while any invoice references
// the client.
func (s *ClientService) Delete(ctx context.Context, clientID uuid.UUID) error {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return err
	}

	referenced, err := s.invoiceRepo.ExistsForClient(ctx, clientID)
	if err != nil {
		return err
	}
	if referenced {
		return shared.ErrReferenced
	}

	return s.clientRepo.Delete(ctx, clientID)
}

// ExportCSV streams all clients as CSV ordered by name
func (s *ClientService) ExportCSV(ctx context.Context, w io.Writer) error {
	clients, err := s.clientRepo.FindAll(ctx, partner.ClientFilter{
		Filter: shared.Filter{OrderBy: "name", OrderDir: "asc"},
	})
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i := range clients {
		client := &clients[i]
		record := []string{client.Name, client.Email, client.Phone, client.Address}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
