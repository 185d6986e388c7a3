package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/autosallon-backend/api/responses"
	"github.com/angelmondragon/autosallon-backend/internal/users"
	"github.com/angelmondragon/autosallon-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
	"github.com/angelmondragon/autosallon-backend/pkg/logger"
)

const (
	rateLimitKeyPrefix = "autosallon:rl"
	// maxThrottledBody caps how much of an auth body is buffered to find the email.
	maxThrottledBody = 64 << 10
)

type rateCounter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RateLimitPolicy throttles one auth endpoint per client IP and per email.
// A zero limit disables that scope.
type RateLimitPolicy struct {
	Name     string
	Window   time.Duration
	PerIP    int
	PerEmail int
}

func LoginRateLimit(cfg config.AuthRateLimitConfig) RateLimitPolicy {
	return RateLimitPolicy{Name: "login", Window: cfg.LoginWindow, PerIP: cfg.LoginIPLimit, PerEmail: cfg.LoginEmailLimit}
}

func RegisterRateLimit(cfg config.AuthRateLimitConfig) RateLimitPolicy {
	return RateLimitPolicy{Name: "register", Window: cfg.RegisterWindow, PerIP: cfg.RegisterIPLimit, PerEmail: cfg.RegisterEmailLimit}
}

func (p RateLimitPolicy) active() bool {
	return p.Window > 0 && (p.PerIP > 0 || p.PerEmail > 0)
}

func (p RateLimitPolicy) key(scope, value string) string {
	name := strings.ToLower(strings.TrimSpace(p.Name))
	if name == "" {
		name = "auth"
	}
	return fmt.Sprintf("%s:%s:%s:%s", rateLimitKeyPrefix, name, scope, value)
}

type rateCheck struct {
	scope string
	value string
	limit int
}

// AuthRateLimit counts attempts in the shared store and rejects with 429 once
// any scope passes its limit inside the policy window. Emails are counted by
// digest so raw addresses never reach the store or the logs.
func AuthRateLimit(policy RateLimitPolicy, counter rateCounter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.active() || counter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var checks []rateCheck
			if policy.PerIP > 0 {
				if ip := clientIP(r); ip != "" {
					checks = append(checks, rateCheck{scope: "ip", value: ip, limit: policy.PerIP})
				}
			}
			if policy.PerEmail > 0 && r.Body != nil {
				body, err := io.ReadAll(io.LimitReader(r.Body, maxThrottledBody))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable request body"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
				if email := users.NormalizeEmail(emailFromBody(body)); email != "" {
					checks = append(checks, rateCheck{scope: "email", value: digest(email), limit: policy.PerEmail})
				}
			}

			for _, check := range checks {
				count, err := counter.IncrWithTTL(ctx, policy.key(check.scope, check.value), policy.Window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limit store unavailable"))
					return
				}
				if count > int64(check.limit) {
					rejectRateLimited(ctx, logg, w, policy, check, count)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rejectRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy RateLimitPolicy, check rateCheck, count int64) {
	seconds := int(policy.Window.Seconds())
	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"policy":         policy.Name,
			"scope":          check.scope,
			"subject":        check.value,
			"attempts":       count,
			"limit":          check.limit,
			"window_seconds": seconds,
		}), "auth.rate_limited")
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
}

// clientIP prefers the first X-Forwarded-For hop since the API runs behind a proxy.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func emailFromBody(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:16])
}
