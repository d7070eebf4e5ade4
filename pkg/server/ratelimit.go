package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiter keeps one token bucket per client IP and forgets idle clients.
type limiter struct {
	mu       sync.Mutex
	clients  map[string]*client
	rate     rate.Limit
	burst    int
	trusted  *proxyMatcher
	logger   *slog.Logger
	onReject func()
	now      func() time.Time
	stopOnce sync.Once
	stopCh   chan struct{}
}

const (
	limiterSweepInterval = time.Minute
	limiterIdleTTL       = 3 * time.Minute
)

func newLimiter(cfg RateLimitConfig, trusted *proxyMatcher, logger *slog.Logger, onReject func()) *limiter {
	return &limiter{
		clients:  make(map[string]*client),
		rate:     rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
		trusted:  trusted,
		logger:   logger,
		onReject: onReject,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// start runs the idle-client sweep until stop.
func (l *limiter) start() {
	go func() {
		ticker := time.NewTicker(limiterSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.sweep()
			case <-l.stopCh:
				return
			}
		}
	}()
}

func (l *limiter) stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) > limiterIdleTTL {
			delete(l.clients, ip)
		}
	}
}

func (l *limiter) allow(ip string) bool {
	l.mu.Lock()
	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = l.now()
	l.mu.Unlock()
	return c.limiter.Allow()
}

// middleware answers 429 once a client exhausts its bucket.
func (l *limiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, l.trusted)
		if !l.allow(ip) {
			l.logger.Warn("rate limit exceeded", "client_ip", ip, "path", r.URL.Path)
			if l.onReject != nil {
				l.onReject()
			}
			retryAfter := max(1, int(1/float64(l.rate)))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
