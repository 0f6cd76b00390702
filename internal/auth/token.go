package auth

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
)

const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleBorrower = "borrower"
)

var Roles = []string{RoleAdmin, RoleStaff, RoleBorrower}

func IsRole(s string) bool {
	return slices.Contains(Roles, s)
}

// Identity is the verified caller carried by a token.
type Identity struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`

	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

func (i Identity) HasRole(roles ...string) bool {
	return slices.Contains(roles, i.Role)
}

var (
	errInvalidToken = httperr.ErrUnauthenticated("invalid_token", "invalid or expired token")
	errRevokedToken = httperr.ErrUnauthenticated("token_revoked", "token has been revoked")
)

type Issuer struct {
	secret  []byte
	ttl     time.Duration
	revoked RevocationStore
	now     func() time.Time
}

func NewIssuer(secret string, ttl time.Duration, revoked RevocationStore) *Issuer {
	if revoked == nil {
		revoked = NoopRevocationStore{}
	}
	return &Issuer{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: revoked,
		now:     time.Now,
	}
}

func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs a HS256 token for id with a fresh expiry and token id.
func (i *Issuer) Issue(id Identity) (string, error) {
	now := i.now()

	claims := jwt.MapClaims{
		"sub":      id.UserID,
		"username": id.Username,
		"role":     id.Role,
		"name":     id.Name,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(i.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// parse checks signature and expiry only.
func (i *Issuer) parse(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return i.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidToken
	}

	sub, ok1 := claims["sub"].(float64)
	role, ok2 := claims["role"].(string)
	jti, ok3 := claims["jti"].(string)
	if !ok1 || !ok2 || !ok3 || sub <= 0 {
		return nil, errInvalidToken
	}
	username, _ := claims["username"].(string)
	name, _ := claims["name"].(string)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, errInvalidToken
	}

	return &Identity{
		UserID:    uint(sub),
		Username:  username,
		Role:      role,
		Name:      name,
		TokenID:   jti,
		ExpiresAt: exp.Time,
	}, nil
}

// Verify returns the identity of a valid, unexpired, unrevoked token.
func (i *Issuer) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	id, err := i.parse(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := i.revoked.IsRevoked(ctx, id.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errRevokedToken
	}
	return id, nil
}

// Authorize verifies the token and requires its role to be one of allowed.
func (i *Issuer) Authorize(ctx context.Context, tokenString string, allowed ...string) (*Identity, error) {
	id, err := i.Verify(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if !id.HasRole(allowed...) {
		return nil, httperr.ErrForbidden("forbidden", "role not allowed for this operation")
	}
	return id, nil
}

// Refresh issues a new token for the same identity and revokes the old one.
func (i *Issuer) Refresh(ctx context.Context, tokenString string) (string, error) {
	id, err := i.Verify(ctx, tokenString)
	if err != nil {
		return "", err
	}

	fresh, err := i.Issue(*id)
	if err != nil {
		return "", err
	}

	if err := i.revoke(ctx, id); err != nil {
		return "", err
	}
	return fresh, nil
}

// Revoke invalidates the token until its natural expiry. Without a
// revocation store this is a no-op and logout is client side only.
func (i *Issuer) Revoke(ctx context.Context, tokenString string) error {
	id, err := i.Verify(ctx, tokenString)
	if err != nil {
		return err
	}
	return i.revoke(ctx, id)
}

func (i *Issuer) revoke(ctx context.Context, id *Identity) error {
	ttl := id.ExpiresAt.Sub(i.now())
	if ttl <= 0 {
		return nil
	}
	if err := i.revoked.Revoke(ctx, id.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
