package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"
)

// rateLimiter throttles the generative routes per client IP. Those calls are
// slow and metered, so a single client must not monopolize the backend.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*rate.Limiter
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{visitors: make(map[string]*rate.Limiter)}
}

func (rl *rateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.visitors[ip]; exists {
		return limiter
	}

	// 1 request per second with a burst of 5.
	limiter := rate.NewLimiter(1, 5)
	rl.visitors[ip] = limiter

	// Forget the IP after a while so the map stays bounded.
	go func() {
		time.Sleep(10 * time.Minute)
		rl.mu.Lock()
		delete(rl.visitors, ip)
		rl.mu.Unlock()
	}()

	return limiter
}

func (rl *rateLimiter) limit(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !rl.getLimiter(clientID(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "muitas requisições, tente novamente em instantes")
			return
		}
		next(w, r, ps)
	}
}
