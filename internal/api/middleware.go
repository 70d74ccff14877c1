/**
 * @description
 * This file contains custom middleware for the HTTP router: the JWT
 * authentication layer that attaches the caller's principal to the request
 * context, and the Redis-backed rate limiter guarding the mutating endpoints.
 *
 * @dependencies
 * - context, net/http, strings: Standard Go libraries.
 * - github.com/golang-jwt/jwt/v5: JWT parsing and HMAC validation.
 * - internal/app, internal/domain: Rate limiter and principal model.
 */

package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/paydesk/deposit-service/internal/app"
	"github.com/paydesk/deposit-service/internal/domain"
)

// principalContextKey is a custom type for the context key to avoid collisions.
type principalContextKey string

const principalKey principalContextKey = "principal"

// AuthMiddleware creates a middleware that validates HMAC-signed JWT tokens
// and attaches the decoded principal to the request context. Expected claims:
// "role" (numeric), and optionally "detail_id", "personal_type", and
// "personal_holder_id" describing the caller's user detail record.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			principal, err := principalFromClaims(claims)
			if err != nil {
				log.Printf("level=warn component=api msg=\"token claims rejected\" err=%v", err)
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// principalFromClaims builds the authenticated principal from the token's
// claim set. The role claim is required; the detail claims are optional as a
// group, but a detail_id must be a valid UUID when present.
func principalFromClaims(claims jwt.MapClaims) (domain.Principal, error) {
	roleValue, ok := claims["role"].(float64)
	if !ok {
		return domain.Principal{}, fmt.Errorf("role claim missing or not numeric")
	}
	principal := domain.Principal{Role: domain.Role(int(roleValue))}

	detailIDRaw, ok := claims["detail_id"].(string)
	if !ok || detailIDRaw == "" {
		return principal, nil
	}
	detailID, err := uuid.Parse(detailIDRaw)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("invalid detail_id claim: %w", err)
	}

	detail := &domain.UserDetail{ID: detailID}
	if typeValue, ok := claims["personal_type"].(float64); ok {
		personalType := domain.PersonalType(int(typeValue))
		detail.Type = &personalType
	}
	if holderRaw, ok := claims["personal_holder_id"].(string); ok && holderRaw != "" {
		holderID, err := uuid.Parse(holderRaw)
		if err != nil {
			return domain.Principal{}, fmt.Errorf("invalid personal_holder_id claim: %w", err)
		}
		detail.PersonalHolderID = &holderID
	}
	principal.UserDetail = detail

	return principal, nil
}

// GetPrincipal retrieves the authenticated principal from the request context.
// Handlers should use this function to get the caller's identity and role.
func GetPrincipal(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(domain.Principal)
	return principal, ok
}

// RateLimiter is the subset of the Redis limiter the middleware needs.
type RateLimiter interface {
	ConsumeRateLimit(ctx context.Context, scope, subject string, limit int, window time.Duration) (int, int, error)
}

// RateLimitMiddleware throttles requests per authenticated subject. When the
// limiter is unreachable the request is allowed through; throttling is a
// guard, not a dependency.
func RateLimitMiddleware(limiter RateLimiter, scope string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			subject := r.RemoteAddr
			if principal, ok := GetPrincipal(r.Context()); ok && principal.UserDetail != nil {
				subject = principal.UserDetail.ID.String()
			}

			count, retryAfter, err := limiter.ConsumeRateLimit(r.Context(), scope, subject, limit, window)
			if err != nil {
				log.Printf("level=warn component=api msg=\"rate limiter unavailable\" scope=%s err=%v", scope, err)
				next.ServeHTTP(w, r)
				return
			}
			if count > limit {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

var _ RateLimiter = (*app.RedisRateLimiter)(nil)
