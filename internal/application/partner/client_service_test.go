package partner

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Yousefaborizk/moonstar/internal/domain/billing"
	"github.com/Yousefaborizk/moonstar/internal/domain/partner"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter partner.ClientFilter) ([]partner.Client, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *MockClientRepository) Count(ctx context.Context, filter partner.ClientFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *partner.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByInstallmentID(ctx context.Context, installmentID uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter billing.InvoiceFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsForClient(ctx context.Context, clientID uuid.UUID) (bool, error) {
	args := m.Called(ctx, clientID)
	return args.Bool(0), args.Error(1)
}

func newClient(t *testing.T, name string) *partner.Client {
	t.Helper()
	client, err := partner.NewClient(name, name+"@example.com", "+201234567890", "Giza")
	require.NoError(t, err)
	return client
}

func TestClientService_Create(t *testing.T) {
	ctx := context.Background()

	clientRepo := new(MockClientRepository)
	service := NewClientService(clientRepo, new(MockInvoiceRepository), nil)

	clientRepo.On("Save", ctx, mock.AnythingOfType("*partner.Client")).Return(nil)

	resp, err := service.Create(ctx, CreateClientRequest{
		Name:  "Stage Lights Co",
		Phone: "+201234567890",
	})

	require.NoError(t, err)
	assert.Equal(t, "Stage Lights Co", resp.Name)
	assert.Equal(t, "+201234567890", resp.Phone)
}

func TestClientService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses while invoiced", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		invoiceRepo := new(MockInvoiceRepository)
		service := NewClientService(clientRepo, invoiceRepo, nil)

		client := newClient(t, "Invoiced")
		clientRepo.On("FindByID", ctx, client.ID).Return(client, nil)
		invoiceRepo.On("ExistsForClient", ctx, client.ID).Return(true, nil)

		err := service.Delete(ctx, client.ID)

		assert.ErrorIs(t, err, shared.ErrReferenced)
		clientRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("removes an uninvoiced client", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		invoiceRepo := new(MockInvoiceRepository)
		service := NewClientService(clientRepo, invoiceRepo, nil)

		client := newClient(t, "Fresh")
		clientRepo.On("FindByID", ctx, client.ID).Return(client, nil)
		invoiceRepo.On("ExistsForClient", ctx, client.ID).Return(false, nil)
		clientRepo.On("Delete", ctx, client.ID).Return(nil)

		err := service.Delete(ctx, client.ID)

		require.NoError(t, err)
		clientRepo.AssertExpectations(t)
	})
}

func TestClientService_ExportCSV(t *testing.T) {
	ctx := context.Background()

	clientRepo := new(MockClientRepository)
	service := NewClientService(clientRepo, new(MockInvoiceRepository), nil)

	alpha := newClient(t, "Alpha")
	beta := newClient(t, "Beta")
	clientRepo.On("FindAll", ctx, mock.MatchedBy(func(f partner.ClientFilter) bool {
		return f.OrderBy == "name" && f.PageSize == 0
	})).Return([]partner.Client{*alpha, *beta}, nil)

	var buf bytes.Buffer
	err := service.ExportCSV(ctx, &buf)

	require.NoError(t, err)
	lines := buf.String()
	assert.Contains(t, lines, "Name,Email,Phone,Address")
	assert.Contains(t, lines, "Alpha,Alpha@example.com,+201234567890,Giza")
	assert.Contains(t, lines, "Beta,")
}
