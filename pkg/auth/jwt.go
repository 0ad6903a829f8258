package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMissingToken     = errors.New("missing authentication token")
	ErrInvalidClaims    = errors.New("invalid token claims")
)

// Claims is the JWT payload this module issues and validates. Subject
// carries the owner ID every request is scoped by.
type Claims struct {
	OwnerID string `json:"sub"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// JWTConfig configures a JWTValidator/JWTGenerator pair. Only HS256 is
// supported: the infrastructure config carries a single shared secret
// (JWT_SECRET), never an RSA keypair to source an RS256 public/private key
// from.
type JWTConfig struct {
	SecretKey string
	Issuer    string
	Audience  []string
}

// JWTValidator validates bearer tokens issued by JWTGenerator.
type JWTValidator struct {
	secretKey []byte
	issuer    string
	audience  []string
}

func NewJWTValidator(cfg JWTConfig) (*JWTValidator, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("auth: secret key is required")
	}
	return &JWTValidator{secretKey: []byte(cfg.SecretKey), issuer: cfg.Issuer, audience: cfg.Audience}, nil
}

// ValidateToken parses and validates tokenString, accepting an optional
// "Bearer " prefix.
func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return v.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, fmt.Errorf("%w: invalid issuer", ErrInvalidClaims)
	}
	if len(v.audience) > 0 && !containsAny(claims.Audience, v.audience) {
		return nil, fmt.Errorf("%w: invalid audience", ErrInvalidClaims)
	}
	if claims.OwnerID == "" {
		return nil, fmt.Errorf("%w: missing owner id", ErrInvalidClaims)
	}
	return claims, nil
}

// JWTGenerator issues bearer tokens. The HTTP API has no token-issuance
// route; tests use it to get a signed token without running a full auth
// flow.
type JWTGenerator struct {
	secretKey []byte
	issuer    string
	audience  []string
	ttl       time.Duration
}

func NewJWTGenerator(cfg JWTConfig, ttl time.Duration) (*JWTGenerator, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("auth: secret key is required")
	}
	return &JWTGenerator{secretKey: []byte(cfg.SecretKey), issuer: cfg.Issuer, audience: cfg.Audience, ttl: ttl}, nil
}

func (g *JWTGenerator) GenerateToken(ownerID, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		OwnerID: ownerID,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   ownerID,
			Audience:  g.audience,
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secretKey)
}

// OwnerContext is the per-request identity every owner-scoped handler reads
// back out of the request context.
type OwnerContext struct {
	OwnerID string
	Email   string
}

type contextKey string

const ownerContextKey contextKey = "owner"

func GetOwnerFromContext(ctx context.Context) (*OwnerContext, error) {
	owner, ok := ctx.Value(ownerContextKey).(*OwnerContext)
	if !ok || owner == nil {
		return nil, errors.New("auth: owner not found in context")
	}
	return owner, nil
}

func SetOwnerInContext(ctx context.Context, owner *OwnerContext) context.Context {
	return context.WithValue(ctx, ownerContextKey, owner)
}

func containsAny(haystack []string, needles []string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if h == n {
				return true
			}
		}
	}
	return false
}
