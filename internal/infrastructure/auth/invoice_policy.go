package auth

import (
	"strings"

	"github.com/Yousefaborizk/moonstar/internal/domain/identity"
)

// InvoiceCreationPolicy decides which users may create invoices. Invoice
// creation is restricted to a configured allow-list of usernames; all
// other back-office operations are open to any authenticated user.
type InvoiceCreationPolicy interface {
	CanCreateInvoice(user *identity.User) bool
}

// AllowListPolicy permits only the configured usernames, compared
// case-insensitively. An empty list permits nobody.
type AllowListPolicy struct {
	allowed map[string]struct{}
}

// NewAllowListPolicy builds a policy from the configured usernames
func NewAllowListPolicy(usernames []string) *AllowListPolicy {
	allowed := make(map[string]struct{}, len(usernames))
	for _, name := range usernames {
		allowed[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	return &AllowListPolicy{allowed: allowed}
}

// CanCreateInvoice reports whether the user's username is on the allow-list
func (p *AllowListPolicy) CanCreateInvoice(user *identity.User) bool {
	if user == nil {
		return false
	}
	_, ok := p.allowed[strings.ToLower(user.Username)]
	return ok
}
