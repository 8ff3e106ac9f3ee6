package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret = errors.New("token secret must not be empty")
	ErrInvalidTTL  = errors.New("token lifetime must be positive")
)

// Identity is what a token says about its bearer.
type Identity struct {
	ID       int64
	Username string
	Email    string
}

// Claims are the signed contents of a bearer token: the identity plus the
// standard iat and exp.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (c *Claims) Identity() Identity {
	return Identity{ID: c.UserID, Username: c.Username, Email: c.Email}
}

// TokenIssuer mints and verifies HS256 bearer tokens. It is immutable after
// construction and safe for concurrent use.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer fails when the secret is empty or ttl is not positive.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	c := *i
	c.now = now
	return &c
}

// TTL is the lifetime given to every issued token.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for id and returns it in "Bearer <jwt>" form. The issue
// time is truncated to whole seconds so that exp is exactly iat+ttl on the wire.
func (i *TokenIssuer) Issue(id Identity) (string, error) {
	now := i.now().Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID:   id.ID,
		Username: id.Username,
		Email:    id.Email,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", common.ErrorInternal, err)
	}

	return common.BearerPrefix + tokenString, nil
}

// Parse verifies a raw token (without the Bearer prefix). A token issued at T
// is accepted while T <= now < T+ttl. Expiry yields common.ErrTokenExpired;
// every other failure wraps common.ErrInvalidToken.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
