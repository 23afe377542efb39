package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainregistry/internal/platform/config"
)

func TestNew(t *testing.T) {
	t.Run("empty url is not configured", func(t *testing.T) {
		c, err := New(context.Background(), config.RedisConfig{})
		assert.Nil(t, c)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("malformed url fails before dialing", func(t *testing.T) {
		_, err := New(context.Background(), config.RedisConfig{URL: "http://not-redis"})
		require.Error(t, err)
		assert.ErrorContains(t, err, "parse redis URL")
	})
}
