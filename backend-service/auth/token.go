package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the authenticated caller extracted from a bearer token.
type Identity struct {
	Wallet string
	Role   string
}

// TokenIssuer issues and verifies the session JWTs handed out after a
// successful wallet-signature login.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	admins map[string]struct{}
}

func NewTokenIssuer(secret string, ttl time.Duration, adminWallets []string) *TokenIssuer {
	admins := make(map[string]struct{}, len(adminWallets))
	for _, w := range adminWallets {
		if w != "" {
			admins[w] = struct{}{}
		}
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, admins: admins}
}

// Role returns the role the wallet logs in with. Admin wallets come from
// configuration; everyone else is a plain user.
func (t *TokenIssuer) Role(wallet string) string {
	if _, ok := t.admins[wallet]; ok {
		return RoleAdmin
	}
	return RoleUser
}

// Issue returns a signed HS256 token for the wallet plus its expiry.
func (t *TokenIssuer) Issue(wallet string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(t.ttl)
	claims := jwt.MapClaims{
		"sub":  wallet,
		"role": t.Role(wallet),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses a bearer token and returns the identity it carries.
func (t *TokenIssuer) Verify(tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	wallet, _ := claims["sub"].(string)
	if wallet == "" {
		return Identity{}, ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = RoleUser
	}
	return Identity{Wallet: wallet, Role: role}, nil
}
