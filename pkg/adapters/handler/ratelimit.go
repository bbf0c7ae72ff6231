package handler

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lizdek/lizdek-api/pkg/core/domain"
	"github.com/lizdek/lizdek-api/pkg/observability"
)

// authLimiter throttles failed authentication attempts per client address.
// Each client gets a token bucket of size limit refilled over window; only
// responses with status >= 400 keep the token they drew.
type authLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time
	errs   *errorWriter

	mu        sync.Mutex
	clients   map[string]*clientBucket
	lastPrune time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newAuthLimiter(limit int, window time.Duration, errs *errorWriter) *authLimiter {
	return &authLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		errs:    errs,
		clients: make(map[string]*clientBucket),
	}
}

func (l *authLimiter) bucket(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) > l.window {
		for key, b := range l.clients {
			if now.Sub(b.lastSeen) > l.window {
				delete(l.clients, key)
			}
		}
		l.lastPrune = now
	}

	b, ok := l.clients[ip]
	if !ok {
		every := rate.Every(l.window / time.Duration(l.limit))
		b = &clientBucket{limiter: rate.NewLimiter(every, l.limit)}
		l.clients[ip] = b
	}
	b.lastSeen = now
	return b.limiter
}

// Wrap guards next. endpoint labels the rejection metric. Every request
// reserves a token before next runs, so concurrent attempts are counted;
// the token is handed back when next answers below 400.
func (l *authLimiter) Wrap(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := l.now()
		res := l.bucket(clientIP(r), now).ReserveN(now, 1)

		if wait := res.DelayFrom(now); wait > 0 {
			res.CancelAt(now)
			observability.RateLimitRejectedTotal.WithLabelValues(endpoint).Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			l.errs.write(w, r, domain.NewTooManyRequestsError("Too many authentication attempts, please try again later."))
			return
		}

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		if sw.status < http.StatusBadRequest {
			res.CancelAt(now)
		}
	}
}
