package middleware

import (
	"sync"
	"time"

	"github.com/edushare/edushare/pkg/serializer"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterSweepInterval = 10 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client IP. Buckets idle long
// enough to have refilled completely are dropped on the next sweep.
type clientLimiter struct {
	mu        sync.Mutex
	tps       float64
	burst     int
	idle      time.Duration
	lastSweep time.Time
	buckets   map[string]*clientBucket
	now       func() time.Time
}

func newClientLimiter(tps float64, burst int) *clientLimiter {
	idle := limiterSweepInterval
	if refill := time.Duration(float64(burst) / tps * float64(time.Second)); refill > idle {
		idle = refill
	}

	return &clientLimiter{
		tps:       tps,
		burst:     burst,
		idle:      idle,
		lastSweep: time.Now(),
		buckets:   make(map[string]*clientBucket),
		now:       time.Now,
	}
}

func (m *clientLimiter) allow(client string) bool {
	m.mu.Lock()
	now := m.now()
	if now.Sub(m.lastSweep) >= limiterSweepInterval {
		m.sweep(now)
	}

	bucket, ok := m.buckets[client]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(rate.Limit(m.tps), m.burst)}
		m.buckets[client] = bucket
	}
	bucket.lastSeen = now
	m.mu.Unlock()

	return bucket.limiter.AllowN(now, 1)
}

// sweep must be called with mu held.
func (m *clientLimiter) sweep(now time.Time) {
	for client, bucket := range m.buckets {
		if now.Sub(bucket.lastSeen) >= m.idle {
			delete(m.buckets, client)
		}
	}
	m.lastSweep = now
}

// LoginRateLimit throttles credential submissions per client IP. Requests
// over the limit are rejected without touching the credential store.
func LoginRateLimit(tps float64, burst int) gin.HandlerFunc {
	return loginRateLimit(newClientLimiter(tps, burst))
}

func loginRateLimit(limiter *clientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "POST" || limiter.allow(c.ClientIP()) {
			c.Next()
			return
		}

		abort(c, serializer.Err(serializer.CodeTooManyRequests, "Too many attempts, please try again later.", nil), c.Request.URL.Path)
	}
}
