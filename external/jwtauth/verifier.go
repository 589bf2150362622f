package jwtauth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/riskibarqy/football-api/internal/domain/user"
	"github.com/riskibarqy/football-api/internal/usecase"
)

// Claims carries the principal fields of an HMAC-signed access token.
// Either roles or the single role claim may be set.
type Claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	Role  string   `json:"role,omitempty"`
}

// Verifier checks locally signed access tokens. It is the offline
// alternative to Anubis introspection.
type Verifier struct {
	secret []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
}

func NewVerifier(secret, issuer string, leeway time.Duration) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &Verifier{
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
		leeway: leeway,
		now:    time.Now,
	}, nil
}

func (v *Verifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return user.Principal{}, fmt.Errorf("%w: invalid access token", usecase.ErrUnauthorized)
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return user.Principal{}, fmt.Errorf("%w: token has no subject", usecase.ErrUnauthorized)
	}

	roles := append([]string(nil), claims.Roles...)
	if role := strings.TrimSpace(claims.Role); role != "" {
		roles = append(roles, role)
	}

	return user.Principal{
		UserID: subject,
		Email:  strings.TrimSpace(claims.Email),
		Roles:  roles,
	}, nil
}
