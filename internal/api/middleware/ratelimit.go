package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers"
)

const (
	msgTooManyRequests = "demasiadas solicitudes, inténtelo más tarde"

	visitorIdleTTL = 10 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов с одного IP (token bucket)
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	trusted []netip.Prefix
	metrics RateLimitMetrics
	now     func() time.Time

	mu          sync.Mutex
	visitors    map[string]*visitor
	lastCleanup time.Time
}

// NewRateLimiter requestsPerMinute запросов в минуту с запасом burst.
// X-Forwarded-For учитывается только для запросов от trustedProxies.
func NewRateLimiter(requestsPerMinute float64, burst int, trustedProxies []netip.Prefix, metrics RateLimitMetrics) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Limit(requestsPerMinute / 60),
		burst:    burst,
		trusted:  trustedProxies,
		metrics:  metrics,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// Middleware отвечает 429, когда лимит клиента исчерпан
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(rl.clientIP(r)) {
			if rl.metrics != nil {
				rl.metrics.IncRateLimited(routeTemplate(r))
			}
			w.Header().Set("Retry-After", "60")
			handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	rl.cleanup(now)
	return v.limiter.AllowN(now, 1)
}

// cleanup раз в visitorIdleTTL удаляет клиентов, которые давно не обращались
func (rl *RateLimiter) cleanup(now time.Time) {
	if now.Sub(rl.lastCleanup) < visitorIdleTTL {
		return
	}
	rl.lastCleanup = now
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTTL {
			delete(rl.visitors, key)
		}
	}
}

// clientIP адрес клиента. Цепочка X-Forwarded-For читается справа налево,
// пока адреса принадлежат доверенным прокси; без доверенного прокси заголовок игнорируется.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !rl.isTrusted(host) {
		return host
	}

	fwd := r.Header.Values("X-Forwarded-For")
	hops := make([]string, 0, len(fwd))
	for _, line := range fwd {
		for _, hop := range strings.Split(line, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}

	for i := len(hops) - 1; i >= 0; i-- {
		if _, err := netip.ParseAddr(hops[i]); err != nil {
			return host
		}
		if !rl.isTrusted(hops[i]) {
			return hops[i]
		}
		host = hops[i]
	}
	return host
}

func (rl *RateLimiter) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range rl.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
