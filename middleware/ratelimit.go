package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Tier is one rate limit bucket.
type Tier struct {
	Name   string
	Max    int
	Window time.Duration
}

var (
	PublicTier = Tier{Name: "public", Max: 10, Window: time.Minute}
	UserTier   = Tier{Name: "user", Max: 30, Window: time.Minute}
	AdminTier  = Tier{Name: "admin", Max: 100, Window: time.Minute}
	ReportTier = Tier{Name: "report", Max: 5, Window: time.Hour}
)

// RateLimitResponse is the 429 body.
type RateLimitResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"`
}

// RateLimit limits requests per caller over a sliding window. Signed-in callers are keyed
// by user id, everyone else by IP. When enabled is false the handler is a pass-through.
func RateLimit(tier Tier, enabled bool) fiber.Handler {
	return limiter.New(limiter.Config{
		Next: func(c *fiber.Ctx) bool {
			return !enabled
		},
		Max:        tier.Max,
		Expiration: tier.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if sess := CurrentSession(c); sess != nil {
				return tier.Name + ":user:" + sess.User.ID
			}
			return tier.Name + ":ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			retryAfter, _ := strconv.Atoi(c.GetRespHeader(fiber.HeaderRetryAfter))
			if retryAfter == 0 {
				retryAfter = int(tier.Window.Seconds())
			}
			return c.Status(fiber.StatusTooManyRequests).JSON(RateLimitResponse{
				Error:      "Rate limit exceeded",
				Message:    "Too many requests. Please try again later.",
				RetryAfter: retryAfter,
			})
		},
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}
