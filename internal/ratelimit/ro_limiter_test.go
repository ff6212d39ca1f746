package ratelimit_test

import (
	"testing"
	"time"

	"github.com/samber/ro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/home-assistant-libs/pydroid-ipcam/internal/ratelimit"
)

func TestLimitPassesItemsThrough(t *testing.T) {
	source := ro.FromSlice([]string{"front", "garage", "front"})

	// Budget far above the item count, so nothing is delayed
	limited := ratelimit.Limit(source, 1000, time.Minute, func(s string) string {
		return s
	})

	items, err := ro.Collect(limited)
	require.NoError(t, err)
	assert.Equal(t, []string{"front", "garage", "front"}, items)
}

func TestLimitDefaultsInterval(t *testing.T) {
	source := ro.FromSlice([]int{1, 2, 3})

	// Zero interval falls back to DefaultInterval instead of panicking
	limited := ratelimit.Limit(source, 100, 0, func(int) string {
		return "all"
	})

	items, err := ro.Collect(limited)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}
