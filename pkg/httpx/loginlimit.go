package httpx

import (
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/fauzaanirsyaadi/user-management-BE/pkg/slogx"
)

// LoginLimiter bounds login attempts per client key. It is constructed at
// process start and injected into the router; implementations must allow a
// distributed store to be swapped in without touching the pipeline.
type LoginLimiter interface {
	// Allow records one attempt for key and reports whether it is within
	// the limit. The check-and-increment is atomic per key.
	Allow(key string) bool

	// Clear removes the attempt record for key, restoring its full quota.
	Clear(key string)
}

// FixedWindowConfig defines the login attempt limit: at most MaxAttempts
// per key within a fixed Window.
type FixedWindowConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// DefaultLoginLimit allows 5 attempts per 5 minutes.
// Override with: RATELIMIT_LOGIN_ATTEMPTS, RATELIMIT_LOGIN_WINDOW_SEC.
var DefaultLoginLimit = FixedWindowConfig{
	MaxAttempts: 5,
	Window:      5 * time.Minute,
}

func init() {
	DefaultLoginLimit = ParseLoginLimitFromEnv("LOGIN", DefaultLoginLimit)
}

// ParseLoginLimitFromEnv reads fixed-window configuration from environment
// variables following the pattern RATELIMIT_{prefix}_{field}.
func ParseLoginLimitFromEnv(prefix string, defaultConfig FixedWindowConfig) FixedWindowConfig {
	config := defaultConfig

	if val := os.Getenv("RATELIMIT_" + prefix + "_ATTEMPTS"); val != "" {
		if attempts, err := strconv.Atoi(val); err == nil && attempts > 0 {
			config.MaxAttempts = attempts
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC"); val != "" {
		if windowSec, err := strconv.Atoi(val); err == nil && windowSec > 0 {
			config.Window = time.Duration(windowSec) * time.Second
		}
	}

	return config
}

// FixedWindowLimiter counts attempts per key in fixed windows. A window
// rolls over when the next attempt arrives more than Window after it
// started, so a burst straddling the boundary can admit up to 2N-1
// attempts across the seam. Stale entries are reset on next access rather
// than swept; a periodic sweep would be needed to bound memory against
// many distinct keys.
type FixedWindowLimiter struct {
	cfg     FixedWindowConfig
	entries sync.Map // map[string]*attempt
}

// attempt carries its own lock so the increment-and-compare sequence is
// atomic per key while distinct keys proceed fully in parallel.
type attempt struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
}

func NewFixedWindowLimiter(cfg FixedWindowConfig) *FixedWindowLimiter {
	return &FixedWindowLimiter{cfg: cfg}
}

func (l *FixedWindowLimiter) Allow(key string) bool {
	now := time.Now()

	v, _ := l.entries.LoadOrStore(key, &attempt{windowStart: now})
	a := v.(*attempt)

	a.mu.Lock()
	defer a.mu.Unlock()

	if now.Sub(a.windowStart) > l.cfg.Window {
		a.count = 0
		a.windowStart = now
	}

	a.count++
	return a.count <= l.cfg.MaxAttempts
}

func (l *FixedWindowLimiter) Clear(key string) {
	l.entries.Delete(key)
}

// LoginRateLimitMiddleware gates the login route through the injected
// limiter. A blocked client is rejected before credential verification ever
// runs; a successful login (200) clears the client's attempt record so its
// full quota is immediately restored.
func LoginRateLimitMiddleware(limiter LoginLimiter, keyExtractor KeyExtractor) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				log.Warn("login rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(key) {
				log.Warn("login rate limit exceeded", "key", key)
				WriteError(w, http.StatusTooManyRequests,
					"Too many login attempts. Please try again later.")
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK {
				limiter.Clear(key)
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}
