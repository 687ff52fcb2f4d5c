package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fauzaanirsyaadi/user-management-BE/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func testLoginConfig() httpx.FixedWindowConfig {
	return httpx.FixedWindowConfig{MaxAttempts: 5, Window: 5 * time.Minute}
}

func TestFixedWindowLimiterAllow(t *testing.T) {
	limiter := httpx.NewFixedWindowLimiter(testLoginConfig())

	// Attempts 1-5 pass, the 6th is blocked.
	for i := range 5 {
		require.True(t, limiter.Allow("10.0.0.1"), "attempt %d should be allowed", i+1)
	}
	require.False(t, limiter.Allow("10.0.0.1"))

	// Other keys are unaffected.
	require.True(t, limiter.Allow("10.0.0.2"))
}

func TestFixedWindowLimiterClear(t *testing.T) {
	limiter := httpx.NewFixedWindowLimiter(testLoginConfig())

	for range 5 {
		limiter.Allow("10.0.0.1")
	}
	require.False(t, limiter.Allow("10.0.0.1"))

	// Clearing restores the full quota; the next attempt counts as the first.
	limiter.Clear("10.0.0.1")
	for i := range 5 {
		require.True(t, limiter.Allow("10.0.0.1"), "attempt %d after clear", i+1)
	}
	require.False(t, limiter.Allow("10.0.0.1"))
}

func TestFixedWindowLimiterWindowRollover(t *testing.T) {
	limiter := httpx.NewFixedWindowLimiter(httpx.FixedWindowConfig{
		MaxAttempts: 2,
		Window:      50 * time.Millisecond,
	})

	require.True(t, limiter.Allow("10.0.0.1"))
	require.True(t, limiter.Allow("10.0.0.1"))
	require.False(t, limiter.Allow("10.0.0.1"))

	// Once the window has elapsed the counter resets without a success.
	time.Sleep(60 * time.Millisecond)
	require.True(t, limiter.Allow("10.0.0.1"))
}

func TestFixedWindowLimiterConcurrent(t *testing.T) {
	const n = 5
	limiter := httpx.NewFixedWindowLimiter(httpx.FixedWindowConfig{
		MaxAttempts: n,
		Window:      5 * time.Minute,
	})

	// 2N simultaneous attempts from one key must admit exactly N: the
	// check-and-increment has to be atomic per key, not merely per field.
	var allowed atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for range 2 * n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if limiter.Allow("10.0.0.1") {
				allowed.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	require.Equal(t, int32(n), allowed.Load())
}

func TestLoginRateLimitMiddleware(t *testing.T) {
	newLoginHandler := func(status int) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
	}

	attempt := func(h http.Handler, addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("blocks the 6th failed attempt", func(t *testing.T) {
		limiter := httpx.NewFixedWindowLimiter(testLoginConfig())
		h := httpx.LoginRateLimitMiddleware(limiter, httpx.IPKeyExtractor)(
			newLoginHandler(http.StatusUnauthorized))

		for i := range 5 {
			rec := attempt(h, "192.168.1.1:12345")
			require.Equal(t, http.StatusUnauthorized, rec.Code, "attempt %d reaches the handler", i+1)
		}

		rec := attempt(h, "192.168.1.1:12345")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.Contains(t, rec.Body.String(), "Too many login attempts")
	})

	t.Run("blocked client never reaches the handler", func(t *testing.T) {
		limiter := httpx.NewFixedWindowLimiter(testLoginConfig())

		var handlerCalls atomic.Int32
		h := httpx.LoginRateLimitMiddleware(limiter, httpx.IPKeyExtractor)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalls.Add(1)
				w.WriteHeader(http.StatusUnauthorized)
			}))

		for range 8 {
			attempt(h, "192.168.1.1:12345")
		}

		require.Equal(t, int32(5), handlerCalls.Load())
	})

	t.Run("success clears the attempt record", func(t *testing.T) {
		limiter := httpx.NewFixedWindowLimiter(testLoginConfig())
		fail := httpx.LoginRateLimitMiddleware(limiter, httpx.IPKeyExtractor)(
			newLoginHandler(http.StatusUnauthorized))
		succeed := httpx.LoginRateLimitMiddleware(limiter, httpx.IPKeyExtractor)(
			newLoginHandler(http.StatusOK))

		for range 4 {
			attempt(fail, "192.168.1.1:12345")
		}

		rec := attempt(succeed, "192.168.1.1:12345")
		require.Equal(t, http.StatusOK, rec.Code)

		// Quota fully restored: five more failures pass before a block.
		for i := range 5 {
			rec := attempt(fail, "192.168.1.1:12345")
			require.Equal(t, http.StatusUnauthorized, rec.Code, "attempt %d after success", i+1)
		}
		rec = attempt(fail, "192.168.1.1:12345")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("keys by forwarded-for when present", func(t *testing.T) {
		limiter := httpx.NewFixedWindowLimiter(testLoginConfig())
		h := httpx.LoginRateLimitMiddleware(limiter, httpx.IPKeyExtractor)(
			newLoginHandler(http.StatusUnauthorized))

		for range 5 {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.RemoteAddr = "10.0.0.1:1111"
			req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
		}

		// Same forwarded client, different peer: still blocked.
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.2:2222"
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)

		// A different forwarded client is unaffected.
		req = httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1111"
		req.Header.Set("X-Forwarded-For", "203.0.113.10")
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestParseLoginLimitFromEnv(t *testing.T) {
	def := httpx.FixedWindowConfig{MaxAttempts: 5, Window: 5 * time.Minute}

	t.Run("no env vars uses defaults", func(t *testing.T) {
		cfg := httpx.ParseLoginLimitFromEnv("TESTLOGIN", def)
		require.Equal(t, def, cfg)
	})

	t.Run("overrides attempts and window", func(t *testing.T) {
		t.Setenv("RATELIMIT_TESTLOGIN_ATTEMPTS", "3")
		t.Setenv("RATELIMIT_TESTLOGIN_WINDOW_SEC", "60")

		cfg := httpx.ParseLoginLimitFromEnv("TESTLOGIN", def)
		require.Equal(t, 3, cfg.MaxAttempts)
		require.Equal(t, time.Minute, cfg.Window)
	})

	t.Run("invalid values use defaults", func(t *testing.T) {
		t.Setenv("RATELIMIT_TESTLOGIN_ATTEMPTS", "zero")
		t.Setenv("RATELIMIT_TESTLOGIN_WINDOW_SEC", "-1")

		cfg := httpx.ParseLoginLimitFromEnv("TESTLOGIN", def)
		require.Equal(t, def, cfg)
	})
}
