package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisabledCacheDegradesToMisses(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	SetCached(ctx, "customers:list", []byte("[]"), time.Minute)
	_, ok := GetCached(ctx, "customers:list")
	assert.False(t, ok)

	var dst []string
	SetJSON(ctx, EquipmentListKey, []string{"a"}, time.Minute)
	assert.False(t, GetJSON(ctx, EquipmentListKey, &dst))

	CacheAuth(ctx, "a@b.c", "pw", 1)
	_, ok = GetCachedAuth(ctx, "a@b.c", "pw")
	assert.False(t, ok)

	InvalidateCustomerCaches(ctx)
	InvalidateEquipmentCaches(ctx)
	assert.False(t, IsHealthy())
}

func TestHashCredentials(t *testing.T) {
	a := hashCredentials("a@b.c", "secret")
	assert.Equal(t, a, hashCredentials("a@b.c", "secret"))
	assert.NotEqual(t, a, hashCredentials("a@b.c", "Secret"))
	assert.Len(t, a, len("auth:")+32)
}
