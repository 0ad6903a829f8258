package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	infraconfig "mnemosyne/infrastructure/config"
	"mnemosyne/pkg/auth"

	"go.uber.org/zap"
)

// Authenticate builds the bearer-token authentication middleware. It
// validates the token itself in every deployment, the Lambda entrypoint
// included.
func Authenticate(cfg *infraconfig.Config, logger *zap.Logger) func(next http.Handler) http.Handler {
	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
	if err != nil {
		logger.Error("auth middleware disabled: invalid JWT config", zap.Error(err))
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				respondUnauthorized(w, "authentication system error")
			})
		}
	}

	ipLimiter := auth.NewIPRateLimiter(cfg.RateLimitPerMinute)
	ownerLimiter := auth.NewOwnerRateLimiter(cfg.RateLimitPerMinute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowed, _ := ipLimiter.Allow(r.Context(), clientIP(r)); !allowed {
				respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			token := extractToken(r)
			if token == "" {
				respondUnauthorized(w, "missing authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				switch err {
				case auth.ErrExpiredToken:
					respondUnauthorized(w, "token has expired")
				case auth.ErrInvalidSignature:
					respondUnauthorized(w, "invalid token signature")
				default:
					respondUnauthorized(w, "invalid token")
				}
				return
			}

			if allowed, _ := ownerLimiter.Allow(r.Context(), claims.OwnerID); !allowed {
				respondWithError(w, http.StatusTooManyRequests, "owner rate limit exceeded")
				return
			}

			ctx := auth.SetOwnerInContext(r.Context(), &auth.OwnerContext{OwnerID: claims.OwnerID, Email: claims.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticateForLambda reads the owner identity from the X-Owner-ID and
// X-Owner-Email request headers without validating any token. Authenticate
// does not use it.
func authenticateForLambda(cfg *infraconfig.Config) func(next http.Handler) http.Handler {
	ownerLimiter := auth.NewOwnerRateLimiter(cfg.RateLimitPerMinute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ownerID := r.Header.Get("X-Owner-ID")
			if ownerID == "" {
				respondUnauthorized(w, "missing owner context from API Gateway")
				return
			}
			if allowed, _ := ownerLimiter.Allow(r.Context(), ownerID); !allowed {
				respondWithError(w, http.StatusTooManyRequests, "owner rate limit exceeded")
				return
			}

			ctx := auth.SetOwnerInContext(r.Context(), &auth.OwnerContext{OwnerID: ownerID, Email: r.Header.Get("X-Owner-Email")})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return r.URL.Query().Get("token")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return authHeader
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	respondWithError(w, http.StatusUnauthorized, message)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    code,
	})
}
