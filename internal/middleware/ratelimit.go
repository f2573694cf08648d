package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/complaint-helper/api/internal/config"
)

// maxTrackedClients bounds the per-client limiter table.
const maxTrackedClients = 10_000

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientTable holds one token bucket per client key. It never grows past max:
// idle buckets are pruned at most once per interval, and when that frees
// nothing the least recently seen bucket is evicted.
type clientTable struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	max       int
	every     rate.Limit
	burst     int
	idle      time.Duration
	lastPrune time.Time
}

func newClientTable(cfg config.RateLimitConfig, max int) *clientTable {
	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}
	return &clientTable{
		clients: make(map[string]*clientLimiter),
		max:     max,
		every:   rate.Every(perRequest),
		burst:   cfg.Requests,
		idle:    cfg.Interval,
	}
}

func (t *clientTable) allow(key string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	cl, ok := t.clients[key]
	if !ok {
		if len(t.clients) >= t.max {
			t.makeRoom(now)
		}
		cl = &clientLimiter{limiter: rate.NewLimiter(t.every, t.burst)}
		t.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// makeRoom frees at least one slot. Callers hold t.mu.
func (t *clientTable) makeRoom(now time.Time) {
	if now.Sub(t.lastPrune) > t.idle {
		t.lastPrune = now
		for k, cl := range t.clients {
			if now.Sub(cl.lastSeen) > t.idle {
				delete(t.clients, k)
			}
		}
		if len(t.clients) < t.max {
			return
		}
	}

	var (
		oldestKey  string
		oldestSeen time.Time
	)
	for k, cl := range t.clients {
		if oldestKey == "" || cl.lastSeen.Before(oldestSeen) {
			oldestKey, oldestSeen = k, cl.lastSeen
		}
	}
	delete(t.clients, oldestKey)
}

func (t *clientTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.clients)
}

// RateLimiter applies a token bucket per client IP as reported by
// echo.Context.RealIP, so the server's IPExtractor decides which headers are
// trusted. A zero config disables limiting.
func RateLimiter(cfg config.RateLimitConfig, message string) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return next(c)
			}
		}
	}
	return rateLimit(newClientTable(cfg, maxTrackedClients), message)
}

func rateLimit(table *clientTable, message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !table.allow(c.RealIP(), time.Now()) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": message})
			}
			return next(c)
		}
	}
}

// ClientIPExtractor returns the extractor the server should use to identify
// clients. Without trusted proxies the socket peer is the client and
// forwarding headers are ignored; otherwise X-Forwarded-For is walked back
// through the listed proxies only.
func ClientIPExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, ipNet := range trusted {
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}
