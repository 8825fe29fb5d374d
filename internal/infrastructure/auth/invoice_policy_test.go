package auth

import (
	"testing"

	"github.com/Yousefaborizk/moonstar/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowListPolicy(t *testing.T) {
	policy := NewAllowListPolicy([]string{"Yousef", " hany "})

	newUser := func(username string) *identity.User {
		u, err := identity.NewUser(username, "s3cret-pass", identity.RoleStaff)
		require.NoError(t, err)
		return u
	}

	t.Run("allows listed usernames regardless of case", func(t *testing.T) {
		assert.True(t, policy.CanCreateInvoice(newUser("yousef")))
		assert.True(t, policy.CanCreateInvoice(newUser("HANY")))
	})

	t.Run("denies unlisted usernames", func(t *testing.T) {
		assert.False(t, policy.CanCreateInvoice(newUser("mallory")))
	})

	t.Run("denies nil user", func(t *testing.T) {
		assert.False(t, policy.CanCreateInvoice(nil))
	})

	t.Run("empty list denies everyone", func(t *testing.T) {
		empty := NewAllowListPolicy(nil)
		assert.False(t, empty.CanCreateInvoice(newUser("yousef")))
	})
}
