package security

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Options control signing parameters and token lifetime.
type Options struct {
	Secret []byte        // HMAC secret (from ENV in production)
	TTL    time.Duration // token lifetime (default 7 days)
}

const defaultTTL = 7 * 24 * time.Hour

func DefaultOptions(secret []byte) Options {
	return Options{Secret: secret, TTL: defaultTTL}
}

// Session is the verified content of a session token.
type Session struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

// Generate signs an HS256 session token carrying the user id. The token id
// (jti) lets a logout revoke this token before its natural expiry.
func Generate(opts Options, userID, tokenID string) (string, time.Time, error) {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	now := time.Now()
	exp := now.Add(opts.TTL)

	claims := jwtlib.MapClaims{
		"sub": userID,
		"jti": tokenID,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": exp.Unix(),
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(opts.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses and validates a session token. Only the HMAC family is
// accepted; asymmetric alg headers are rejected outright.
func Verify(opts Options, token string) (*Session, error) {
	parsed, err := jwtlib.Parse(token, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected alg: %v", t.Header["alg"])
		}
		return opts.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("claims type mismatch")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token missing subject")
	}
	jti, _ := claims["jti"].(string)

	sess := &Session{UserID: sub, TokenID: jti}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sess.ExpiresAt = exp.Time
	}
	return sess, nil
}
