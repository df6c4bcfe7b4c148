package quota

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnlimited_AlwaysAllows(t *testing.T) {
	limiter := Unlimited{}

	for range 1000 {
		require.NoError(t, limiter.Allow(context.Background(), "alice"))
	}
}

func TestIsQuotaExceeded(t *testing.T) {
	require.True(t, IsQuotaExceeded(ErrQuotaExceeded))
	require.False(t, IsQuotaExceeded(context.Canceled))
}
