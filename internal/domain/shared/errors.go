package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a domain error for an invalid input value
func NewValidationError(message string) *DomainError {
	return NewDomainError("VALIDATION", message)
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")

	// ErrReferenced signals protect-on-delete semantics: the record is
	// referenced by another aggregate and cannot be removed.
	ErrReferenced = NewDomainError("REFERENCED", "Resource is referenced by other records and cannot be deleted")

	// Billing-specific errors surfaced across layers.
	ErrEmptyInvoice           = NewDomainError("EMPTY_INVOICE", "Cannot mark an invoice with no items as paid")
	ErrInstallmentAlreadyPaid = NewDomainError("ALREADY_PAID", "Installment is already paid")
	ErrDuplicateInvoiceItem   = NewDomainError("DUPLICATE_ITEM", "Product already appears on this invoice")
	ErrInvoiceLocked          = NewDomainError("INVOICE_LOCKED", "Cancelled invoices cannot be edited")
)
