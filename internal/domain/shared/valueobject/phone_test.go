package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneNumber(t *testing.T) {
	t.Run("accepts international format", func(t *testing.T) {
		p, err := NewPhoneNumber("+201234567890")
		require.NoError(t, err)
		assert.Equal(t, "+201234567890", p.String())
		assert.False(t, p.IsZero())
	})

	t.Run("accepts bare digits", func(t *testing.T) {
		_, err := NewPhoneNumber("0101234567")
		require.NoError(t, err)
	})

	t.Run("rejects too short", func(t *testing.T) {
		_, err := NewPhoneNumber("12345")
		require.Error(t, err)
	})

	t.Run("rejects letters and separators", func(t *testing.T) {
		for _, raw := range []string{"abc123456789", "+20 123 456 7890", "0101-234-567"} {
			_, err := NewPhoneNumber(raw)
			assert.Error(t, err, raw)
		}
	})
}
