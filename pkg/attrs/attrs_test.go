package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrings(t *testing.T) {
	got := Strings([]any{
		"actor", "0xaa",
		"block", uint64(7),
		42, "ignored",
		"status", "confirmed",
		"status", "failed",
		"dangling",
	})

	assert.Equal(t, map[string]string{"actor": "0xaa", "status": "failed"}, got)
	assert.Empty(t, Strings(nil))
}
