// Package auth issues and verifies staff session tokens and guards
// restaurant-scoped routes.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"qrmenu/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const DefaultTTL = 7 * 24 * time.Hour

type Claims struct {
	RestaurantID int    `json:"restaurantId"`
	Email        string `json:"email"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *TokenManager) Issue(restaurantID int, email string) (string, error) {
	now := m.now()
	claims := Claims{
		RestaurantID: restaurantID,
		Email:        email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(restaurantID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *TokenManager) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return nil, apperr.Unauthorized("invalid or expired token")
	}
	if claims.RestaurantID <= 0 {
		return nil, apperr.Unauthorized("token carries no restaurant")
	}
	return claims, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type ctxKey struct{}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok
}

// Authorize checks that the caller acts for restaurantID.
func Authorize(ctx context.Context, restaurantID int) error {
	c, ok := FromContext(ctx)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	if c.RestaurantID != restaurantID {
		return apperr.Forbidden("access to restaurant %d denied", restaurantID)
	}
	return nil
}

// RestaurantID returns the caller's restaurant from the request context.
func RestaurantID(ctx context.Context) (int, error) {
	c, ok := FromContext(ctx)
	if !ok {
		return 0, apperr.Unauthorized("authentication required")
	}
	return c.RestaurantID, nil
}

func bearer(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", errors.New("malformed authorization header")
	}
	return strings.TrimSpace(token), nil
}

// Require rejects requests without a valid bearer token and stores the claims
// in the request context.
func (m *TokenManager) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearer(r)
		if err != nil {
			writeUnauthorized(w, "authentication required")
			return
		}
		claims, err := m.Verify(token)
		if err != nil {
			writeUnauthorized(w, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func (m *TokenManager) RequireFunc(next http.HandlerFunc) http.HandlerFunc {
	return m.Require(next).ServeHTTP
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
