package token

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token expiry durations
const (
	DefaultAccessTokenExpiry = 15 * time.Minute
	DefaultIssuer            = "doccollab"
	DefaultAudience          = "doccollab"
)

// Claims carries the account identity inside an access token.
type Claims struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// AccessToken is a signed token with its expiry time.
type AccessToken struct {
	Token  string
	Expiry time.Time
}

// JwtService signs and parses HS256 access tokens for the HTTP surface.
type JwtService struct {
	Secret            string
	Issuer            string
	Audience          string
	AccessTokenExpiry time.Duration
}

// JwtServiceOption configures a JwtService.
type JwtServiceOption func(*JwtService)

// WithAccessTokenExpiry sets the access token expiry duration
func WithAccessTokenExpiry(expiry time.Duration) JwtServiceOption {
	return func(js *JwtService) {
		js.AccessTokenExpiry = expiry
	}
}

// WithIssuer sets the token issuer
func WithIssuer(issuer string) JwtServiceOption {
	return func(js *JwtService) {
		js.Issuer = issuer
	}
}

// WithAudience sets the token audience
func WithAudience(audience string) JwtServiceOption {
	return func(js *JwtService) {
		js.Audience = audience
	}
}

// NewJwtService creates a new JwtService signing with secret.
func NewJwtService(secret string, options ...JwtServiceOption) *JwtService {
	js := &JwtService{
		Secret:            secret,
		Issuer:            DefaultIssuer,
		Audience:          DefaultAudience,
		AccessTokenExpiry: DefaultAccessTokenExpiry,
	}
	for _, option := range options {
		option(js)
	}
	return js
}

// GenerateAccessToken signs a token for the given account.
func (js *JwtService) GenerateAccessToken(accountID uuid.UUID, email, username string) (AccessToken, error) {
	now := time.Now().UTC()
	claims := Claims{
		Email:    email,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(js.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Minute)),
			Issuer:    js.Issuer,
			Subject:   accountID.String(),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{js.Audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(js.Secret))
	if err != nil {
		slog.Error("Failed to sign access token", "err", err)
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Expiry: claims.ExpiresAt.Time}, nil
}

// ParseAccessToken validates a token string and returns its claims.
func (js *JwtService) ParseAccessToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(js.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	return claims, nil
}

// AccountID extracts the subject as a UUID.
func (c *Claims) AccountID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
