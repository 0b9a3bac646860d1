package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"travelmind/pkg/utils"
)

// idleLimiterTTL is how long an unused per-user bucket is kept.
const idleLimiterTTL = 30 * time.Minute

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per authenticated user, refilled at
// perMinute tokens a minute with the same burst.
type RateLimiter struct {
	mu        sync.Mutex
	perMinute int
	users     map[uuid.UUID]*userLimiter
	now       func() time.Time
}

func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		perMinute: perMinute,
		users:     map[uuid.UUID]*userLimiter{},
		now:       time.Now,
	}
}

func (l *RateLimiter) allow(userID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, u := range l.users {
		if now.Sub(u.lastSeen) > idleLimiterTTL {
			delete(l.users, id)
		}
	}

	u, ok := l.users[userID]
	if !ok {
		u = &userLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute),
		}
		l.users[userID] = u
	}
	u.lastSeen = now
	return u.limiter.AllowN(now, 1)
}

// Middleware must run after JWTAuthMiddleware. A non-positive rate disables it.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.perMinute <= 0 {
			c.Next()
			return
		}
		userID, _ := CurrentUserID(c)
		if !l.allow(userID) {
			c.Header("Retry-After", "60")
			utils.HandleServiceError(c, utils.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
