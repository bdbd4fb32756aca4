package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pulsecrm/pulse/utils"
)

// Token service error constants
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenService is the authentication shim. It only signs and validates demo
// session tokens; real identity and session issuance live outside this
// service.
type TokenService interface {
	GenerateDemoToken(name, email string) (string, error)
	ValidateToken(token string) (*TokenClaims, error)
}

// TokenClaims represents the claims carried by a session token
type TokenClaims struct {
	Subject   string    `json:"sub"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	TokenID   string    `json:"jti"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenServiceImpl implements TokenService with HMAC-signed JWTs
type TokenServiceImpl struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
}

// NewTokenService creates a new token service
func NewTokenService(secretKey string, ttl time.Duration, issuer string) (TokenService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("token secret key is required")
	}
	if ttl <= 0 {
		ttl = utils.DemoTokenTTL
	}

	return &TokenServiceImpl{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		issuer:    issuer,
	}, nil
}

// GenerateDemoToken signs a short-lived token for the demo identity
func (s *TokenServiceImpl) GenerateDemoToken(name, email string) (string, error) {
	tokenID, err := generateTokenID()
	if err != nil {
		return "", err
	}

	now := utils.UTCNow()
	claims := jwt.MapClaims{
		"sub":   email,
		"name":  name,
		"email": email,
		"jti":   tokenID,
		"iss":   s.issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken parses and verifies a token, returning its claims
func (s *TokenServiceImpl) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	out := &TokenClaims{}
	if v, ok := claims["sub"].(string); ok {
		out.Subject = v
	}
	if v, ok := claims["name"].(string); ok {
		out.Name = v
	}
	if v, ok := claims["email"].(string); ok {
		out.Email = v
	}
	if v, ok := claims["jti"].(string); ok {
		out.TokenID = v
	}
	if v, ok := claims["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(v), 0).UTC()
	}
	if v, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(v), 0).UTC()
	}

	return out, nil
}

func generateTokenID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
