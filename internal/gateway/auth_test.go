package gateway

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeEqual(t *testing.T) {
	assert.True(t, safeEqual("secret", "secret"))
	assert.False(t, safeEqual("secret", "Secret"))
	assert.False(t, safeEqual("secret", "secret2"))
	assert.False(t, safeEqual("", "secret"))
	assert.True(t, safeEqual("", ""))
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws", nil)
	assert.Empty(t, bearerToken(r))

	r = httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", bearerToken(r))

	r = httptest.NewRequest("GET", "/ws?token=qry456", nil)
	assert.Equal(t, "qry456", bearerToken(r))

	// The header wins over the query parameter.
	r = httptest.NewRequest("GET", "/ws?token=qry456", nil)
	r.Header.Set("Authorization", "Bearer hdr789")
	assert.Equal(t, "hdr789", bearerToken(r))

	// Non-bearer schemes fall through to the query parameter.
	r = httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Empty(t, bearerToken(r))
}

func TestAuthorized(t *testing.T) {
	open := httptest.NewRequest("GET", "/api/v1/sessions", nil)
	assert.True(t, authorized(open, ""))

	withToken := httptest.NewRequest("GET", "/api/v1/sessions", nil)
	withToken.Header.Set("Authorization", "Bearer secret")
	assert.True(t, authorized(withToken, "secret"))
	assert.False(t, authorized(withToken, "other"))
	assert.False(t, authorized(open, "secret"))
}

func TestAuthRateLimiterLocksOutAfterMaxFails(t *testing.T) {
	rl := &authRateLimiter{failures: make(map[string][]time.Time)}
	addr := "203.0.113.7:54321"

	assert.True(t, rl.allow(addr))
	for i := 0; i < authRateMaxFails; i++ {
		rl.recordFailure(addr)
	}
	assert.False(t, rl.allow(addr))

	// A different IP is unaffected.
	assert.True(t, rl.allow("203.0.113.8:54321"))
}

func TestAuthRateLimiterWindowExpires(t *testing.T) {
	rl := &authRateLimiter{failures: make(map[string][]time.Time)}
	addr := "203.0.113.7:54321"

	// Stale failures outside the window are pruned on check.
	old := time.Now().Add(-authRateWindow - time.Minute)
	for i := 0; i < authRateMaxFails; i++ {
		rl.failures["203.0.113.7"] = append(rl.failures["203.0.113.7"], old)
	}
	assert.True(t, rl.allow(addr))
	assert.Empty(t, rl.failures["203.0.113.7"])
}

func TestAuthRateLimiterCapsTrackedIPs(t *testing.T) {
	rl := &authRateLimiter{failures: make(map[string][]time.Time)}

	for i := 0; i < authRateMaxIPs; i++ {
		rl.recordFailure(fmt.Sprintf("10.0.%d.%d:1", i/256, i%256))
	}
	assert.Len(t, rl.failures, authRateMaxIPs)

	rl.recordFailure("198.51.100.1:1")
	assert.Len(t, rl.failures, authRateMaxIPs)
	assert.NotEmpty(t, rl.failures["198.51.100.1"])
}
