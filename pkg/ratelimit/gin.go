package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gatekeeper/pkg/metrics"
	"gatekeeper/pkg/utils"
)

const TooManyRequestsMessage = "Zu viele Anfragen. Bitte versuchen Sie es später erneut."

type Policy struct {
	Max    int
	Window time.Duration
}

func DefaultPolicy() Policy {
	return Policy{Max: DefaultMax, Window: DefaultWindow}
}

// Reject counts the request against its client IP. It returns true when the
// limit was exceeded; the 429 response has then already been written and the
// caller must stop processing.
func (l *Limiter) Reject(c *gin.Context, policy Policy) bool {
	if l.Allow(ClientIP(c.Request), policy.Max, policy.Window) {
		metrics.RateLimitDecisions.WithLabelValues("allow").Inc()
		return false
	}

	metrics.RateLimitDecisions.WithLabelValues("deny").Inc()
	c.Header("Retry-After", retryAfterSeconds(policy.Window))
	utils.RespondError(c, http.StatusTooManyRequests, TooManyRequestsMessage)
	c.Abort()
	return true
}

func (l *Limiter) Middleware(policy Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.Reject(c, policy) {
			return
		}
		c.Next()
	}
}

func retryAfterSeconds(window time.Duration) string {
	secs := int64(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}
