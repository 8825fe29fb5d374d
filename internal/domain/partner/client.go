package partner

import (
	"strings"
	"time"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared/valueobject"
)

// Client represents a customer that receives invoices
// It is the aggregate root for client-related operations
type Client struct {
	shared.BaseAggregateRoot
	Name    string `gorm:"type:varchar(200);not null;index"`
	Email   string `gorm:"type:varchar(254)"`
	Phone   string `gorm:"type:varchar(17);not null"`
	Address string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client. A validated phone number is required;
// email is optional.
func NewClient(name, email, phone, address string) (*Client, error) {
	if err := validateClientName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	normalizedPhone, err := normalizePhone(phone)
	if err != nil {
		return nil, err
	}

	client := &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Phone:             normalizedPhone,
		Address:           address,
	}

	client.AddDomainEvent(NewClientCreatedEvent(client))

	return client, nil
}

// Update updates the client's contact details
func (c *Client) Update(name, email, phone, address string) error {
	if err := validateClientName(name); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}

	normalizedPhone, err := normalizePhone(phone)
	if err != nil {
		return err
	}

	c.Name = name
	c.Email = email
	c.Phone = normalizedPhone
	c.Address = address
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewClientUpdatedEvent(c))

	return nil
}

func validateClientName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	return nil
}

func normalizePhone(phone string) (string, error) {
	if phone == "" {
		return "", shared.NewDomainError("INVALID_PHONE", "Client phone number is required")
	}
	p, err := valueobject.NewPhoneNumber(phone)
	if err != nil {
		return "", err
	}
	return p.String(), nil
}

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if len(email) > 254 || !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	return nil
}
