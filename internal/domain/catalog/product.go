package catalog

import (
	"time"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductCategory classifies a product within the stage-lighting catalog
type ProductCategory string

const (
	CategoryMovingHead  ProductCategory = "moving_head"
	CategoryLedPar      ProductCategory = "led_par"
	CategorySmoke       ProductCategory = "smoke"
	CategoryControls    ProductCategory = "controls"
	CategoryLaserBeam   ProductCategory = "laser_beam"
	CategoryLamps       ProductCategory = "lamps"
	CategoryTruss       ProductCategory = "truss"
	CategoryLedScreens  ProductCategory = "led_screens"
	CategoryAccessories ProductCategory = "accessories"
	CategoryOther       ProductCategory = "other"
)

// AllCategories lists every valid category in display order
func AllCategories() []ProductCategory {
	return []ProductCategory{
		CategoryMovingHead,
		CategoryLedPar,
		CategorySmoke,
		CategoryControls,
		CategoryLaserBeam,
		CategoryLamps,
		CategoryTruss,
		CategoryLedScreens,
		CategoryAccessories,
		CategoryOther,
	}
}

// IsValid returns true if the category is a known value
func (c ProductCategory) IsValid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// DisplayName returns the human-readable category label
func (c ProductCategory) DisplayName() string {
	switch c {
	case CategoryMovingHead:
		return "Moving Head"
	case CategoryLedPar:
		return "Led Par"
	case CategorySmoke:
		return "Smoke"
	case CategoryControls:
		return "Controls"
	case CategoryLaserBeam:
		return "Laser Beam"
	case CategoryLamps:
		return "Lamps"
	case CategoryTruss:
		return "Truss"
	case CategoryLedScreens:
		return "Led Screens"
	case CategoryAccessories:
		return "Accessories"
	case CategoryOther:
		return "Other"
	default:
		return string(c)
	}
}

// Product represents a sellable catalog entry
// It is the aggregate root for product-related operations
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null;index"`
	Category    ProductCategory `gorm:"type:varchar(30);not null;default:'other';index"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ImageKey    string          `gorm:"type:varchar(500)"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(name string, category ProductCategory, price valueobject.Money, description string) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Category:          category,
		Description:       description,
		Price:             price.Amount(),
		Active:            true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name string, category ProductCategory, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}

	p.Name = name
	p.Category = category
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// ChangePrice updates the selling price. Invoice lines created before the
// change keep the price they were created with.
func (p *Product) ChangePrice(price valueobject.Money) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}

	oldPrice := p.Price
	p.Price = price.Round2().Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// AttachImage records the object-storage key of the product photo
func (p *Product) AttachImage(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_IMAGE", "Image key cannot be empty")
	}
	if len(key) > 500 {
		return shared.NewDomainError("INVALID_IMAGE", "Image key cannot exceed 500 characters")
	}

	p.ImageKey = key
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// RemoveImage clears the stored image key
func (p *Product) RemoveImage() {
	p.ImageKey = ""
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate makes the product visible in the public catalog
func (p *Product) Activate() {
	if p.Active {
		return
	}
	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate hides the product from the public catalog without deleting it
func (p *Product) Deactivate() {
	if !p.Active {
		return
	}
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// HasImage returns true if a photo is attached
func (p *Product) HasImage() bool {
	return p.ImageKey != ""
}

// PriceMoney returns the price as a Money value object
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.NewMoney(p.Price)
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
