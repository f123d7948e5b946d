package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog/log"

	"semaphore.iot/internal/config"
)

type contextKey string

// ClaimsKey carries validated JWT claims in the request context.
const ClaimsKey contextKey = "claims"

// DeviceKey carries the authenticated device identity in the request context.
const DeviceKey contextKey = "device"

// Auth bundles the request authentication strategies: a shared token for
// semaphore chips, an HMAC JWT for local clients, and Auth0 JWKS validation
// for dashboard users when configured.
type Auth struct {
	deviceToken string
	jwtSecret   []byte
	auth0       *jwtmiddleware.JWTMiddleware
}

// NewAuth builds the authentication middleware from configuration.
func NewAuth(cfg config.Config) (*Auth, error) {
	a := &Auth{
		deviceToken: cfg.DeviceToken,
		jwtSecret:   []byte(cfg.JWTSecret),
	}

	if cfg.Auth0.Enabled() {
		issuerURL, err := url.Parse(cfg.Auth0.Issuer)
		if err != nil {
			return nil, fmt.Errorf("invalid Auth0 issuer URL: %w", err)
		}
		provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)
		jwtValidator, err := validator.New(
			provider.KeyFunc,
			validator.RS256,
			issuerURL.String(),
			[]string{cfg.Auth0.Audience},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to set up Auth0 validator: %w", err)
		}
		a.auth0 = jwtmiddleware.New(jwtValidator.ValidateToken)
	}

	return a, nil
}

// validateHMACJWT validates an HMAC JWT and returns its claims.
func (a *Auth) validateHMACJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// DeviceMiddleware authenticates a request from a semaphore chip using the
// shared device token.
func (a *Auth) DeviceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Device-Token")
		if token == "" {
			log.Warn().Msg("device authentication failed: token header missing")
			http.Error(w, "Device token header missing", http.StatusUnauthorized)
			return
		}
		if token != a.deviceToken {
			log.Warn().Msg("device authentication failed: invalid token")
			http.Error(w, "Invalid device token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), DeviceKey, "semaphore-chip")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// JWTMiddleware verifies a bearer token and attaches its claims to the
// request context. Auth0 validation is used when configured, HMAC otherwise.
func (a *Auth) JWTMiddleware(next http.Handler) http.Handler {
	if a.auth0 != nil {
		return a.auth0.CheckJWT(next)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			http.Error(w, "Invalid token format", http.StatusUnauthorized)
			return
		}

		claims, err := a.validateHMACJWT(tokenString)
		if err != nil {
			log.Warn().Err(err).Msg("JWT authentication failed")
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CombinedMiddleware selects the authentication method based on the client
// type header: semaphore chips use the device token, everything else a JWT.
func (a *Auth) CombinedMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientType := r.Header.Get("X-Client-Type")
		if strings.ToLower(clientType) == "semaphore-chip" {
			a.DeviceMiddleware(next).ServeHTTP(w, r)
			return
		}
		a.JWTMiddleware(next).ServeHTTP(w, r)
	})
}
