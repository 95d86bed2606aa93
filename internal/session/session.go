// Package session keeps the catalog bearer token each seller hands to the
// console and checks it before any catalog call is made on their behalf.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoCredential = errors.New("no catalog credential for seller")
	ErrExpired      = errors.New("catalog credential has expired")
	ErrInvalidToken = errors.New("catalog credential is not a valid token")
	ErrRole         = errors.New("catalog credential lacks a seller role")
)

// Store persists one bearer token per seller.
type Store interface {
	Put(ctx context.Context, sellerID, token string, ttl time.Duration) error
	Get(ctx context.Context, sellerID string) (string, error)
	Delete(ctx context.Context, sellerID string) error
}

// Claims is what the console reads from a catalog token. The signature is
// not verified here; the catalog does that on every call.
type Claims struct {
	Subject   string
	Roles     []string
	ExpiresAt time.Time
}

// Inspector parses tokens and enforces expiry and role.
type Inspector struct {
	allowedRoles []string
	leeway       time.Duration
	now          func() time.Time
}

// NewInspector accepts tokens carrying any of allowedRoles. An empty list
// accepts every role.
func NewInspector(allowedRoles []string, leeway time.Duration) *Inspector {
	return &Inspector{allowedRoles: allowedRoles, leeway: leeway, now: time.Now}
}

// Inspect decodes token and checks it is unexpired and carries an allowed role.
func (in *Inspector) Inspect(token string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	var c Claims
	c.Subject, _ = mc.GetSubject()
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	c.Roles = roles(mc)

	if !c.ExpiresAt.IsZero() && in.now().After(c.ExpiresAt.Add(in.leeway)) {
		return c, ErrExpired
	}
	if len(in.allowedRoles) > 0 && !slices.ContainsFunc(c.Roles, func(r string) bool {
		return slices.Contains(in.allowedRoles, r)
	}) {
		return c, ErrRole
	}
	return c, nil
}

// roles reads "role" (string) or "roles"/"authorities" (string list),
// normalizing a ROLE_ prefix away and upper-casing.
func roles(mc jwt.MapClaims) []string {
	var raw []string
	if r, ok := mc["role"].(string); ok {
		raw = append(raw, r)
	}
	for _, key := range []string{"roles", "authorities"} {
		if list, ok := mc[key].([]any); ok {
			for _, v := range list {
				if s, ok := v.(string); ok {
					raw = append(raw, s)
				}
			}
		}
	}

	out := make([]string, 0, len(raw))
	for _, r := range raw {
		out = append(out, strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(r)), "ROLE_"))
	}
	return out
}

// Credentials is the seller credential collaborator used by the orchestrator.
type Credentials struct {
	store     Store
	inspector *Inspector
	maxTTL    time.Duration
}

// NewCredentials combines a token store with an inspector. maxTTL caps how
// long a token is kept when it carries no expiry of its own.
func NewCredentials(store Store, inspector *Inspector, maxTTL time.Duration) *Credentials {
	return &Credentials{store: store, inspector: inspector, maxTTL: maxTTL}
}

// Save inspects token and stores it for sellerID until it expires.
func (c *Credentials) Save(ctx context.Context, sellerID, token string) (Claims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	claims, err := c.inspector.Inspect(token)
	if err != nil {
		return claims, err
	}

	ttl := c.maxTTL
	if !claims.ExpiresAt.IsZero() {
		until := claims.ExpiresAt.Sub(c.inspector.now())
		if until <= 0 {
			return claims, ErrExpired
		}
		if ttl <= 0 || until < ttl {
			ttl = until
		}
	}
	if err := c.store.Put(ctx, sellerID, token, ttl); err != nil {
		return claims, fmt.Errorf("store credential: %w", err)
	}
	return claims, nil
}

// Token returns sellerID's bearer token after re-checking expiry and role.
func (c *Credentials) Token(ctx context.Context, sellerID string) (string, error) {
	token, err := c.store.Get(ctx, sellerID)
	if err != nil {
		return "", err
	}
	if _, err := c.inspector.Inspect(token); err != nil {
		return "", err
	}
	return token, nil
}

// Forget removes sellerID's token.
func (c *Credentials) Forget(ctx context.Context, sellerID string) error {
	return c.store.Delete(ctx, sellerID)
}

// IsCredentialError reports whether err means the seller must sign in again.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrNoCredential) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrRole)
}
