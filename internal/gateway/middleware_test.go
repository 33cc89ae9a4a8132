package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/config"
)

func TestIngestRateLimit(t *testing.T) {
	_, _, ts := newTestServer(t, config.GatewayConfig{RateLimit: 1, RateBurst: 1})

	resp := postIngest(t, ts, "sess-rl", "hello")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The bucket holds a single token; the immediate follow-up is rejected.
	resp = postIngest(t, ts, "sess-rl", "hello again")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "RATE_LIMITED", env.Error.Code)
}

func TestIngestRateLimitDisabledByDefault(t *testing.T) {
	_, _, ts := newTestServer(t, config.GatewayConfig{})

	for i := 0; i < 5; i++ {
		resp := postIngest(t, ts, "sess-norl", "hello")
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestIngestIdempotencyReplay(t *testing.T) {
	_, st, ts := newTestServer(t, config.GatewayConfig{})

	send := func() (*http.Response, string) {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/ingest", ingestBody("sess-idem", "hello"))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", "req-123")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		resp.Body.Close()
		return resp, string(body)
	}

	first, firstBody := send()
	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Empty(t, first.Header.Get("X-Idempotent-Replay"))

	second, secondBody := send()
	assert.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, "true", second.Header.Get("X-Idempotent-Replay"))
	assert.Equal(t, firstBody, secondBody)

	// The replay never reached the engine: still one exchange recorded.
	sess, err := st.Get("sess-idem")
	require.NoError(t, err)
	assert.Equal(t, 2, sess.TotalMessages)
}

func TestIngestWithoutRequestIDNotCached(t *testing.T) {
	_, st, ts := newTestServer(t, config.GatewayConfig{})

	postIngest(t, ts, "sess-noid", "hello").Body.Close()
	postIngest(t, ts, "sess-noid", "hello").Body.Close()

	sess, err := st.Get("sess-noid")
	require.NoError(t, err)
	assert.Equal(t, 4, sess.TotalMessages)
}

func TestIngestTokenGate(t *testing.T) {
	_, _, ts := newTestServer(t, config.GatewayConfig{IngestToken: "ingest-secret"})

	resp := postIngest(t, ts, "sess-tok", "hello")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/ingest", ingestBody("sess-tok", "hello"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer ingest-secret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
