package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active user with lowered username", func(t *testing.T) {
		u, err := NewUser("Yousef", "s3cret-pass", RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, "yousef", u.Username)
		assert.True(t, u.Active)
		assert.True(t, u.IsAdmin())
		assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	})

	t.Run("fails with short password", func(t *testing.T) {
		_, err := NewUser("hany", "short", RoleStaff)
		require.Error(t, err)
	})

	t.Run("fails with invalid username characters", func(t *testing.T) {
		_, err := NewUser("bad user!", "s3cret-pass", RoleStaff)
		require.Error(t, err)
	})

	t.Run("fails with unknown role", func(t *testing.T) {
		_, err := NewUser("hany", "s3cret-pass", UserRole("superuser"))
		require.Error(t, err)
	})
}

func TestUser_Password(t *testing.T) {
	u, err := NewUser("yousef", "original-pass", RoleStaff)
	require.NoError(t, err)

	t.Run("verify", func(t *testing.T) {
		assert.True(t, u.VerifyPassword("original-pass"))
		assert.False(t, u.VerifyPassword("wrong-pass"))
	})

	t.Run("change requires the old password", func(t *testing.T) {
		err := u.ChangePassword("wrong-pass", "replacement-pass")
		require.Error(t, err)

		require.NoError(t, u.ChangePassword("original-pass", "replacement-pass"))
		assert.True(t, u.VerifyPassword("replacement-pass"))
		assert.False(t, u.VerifyPassword("original-pass"))
	})
}

func TestUser_Lifecycle(t *testing.T) {
	u, err := NewUser("hany", "s3cret-pass", RoleStaff)
	require.NoError(t, err)

	u.Deactivate()
	assert.False(t, u.Active)
	u.Activate()
	assert.True(t, u.Active)

	at := time.Now()
	u.RecordLogin(at)
	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, at, *u.LastLoginAt)
}
