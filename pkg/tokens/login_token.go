package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotJWT = errors.New("token is not a JWT")

// LoginClaims is what the catalog API puts into the token it returns from /auth/login.
type LoginClaims struct {
	Subject  string
	User     string
	IssuedAt time.Time
}

// LoginClaimsFromToken decodes the claims without checking the signature.
// The signing key belongs to the API, so the result is for display only and never grants a role.
func LoginClaimsFromToken(tokenStr string) (*LoginClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	out := &LoginClaims{}
	switch sub := claims["sub"].(type) {
	case string:
		out.Subject = sub
	case float64:
		out.Subject = strconv.FormatFloat(sub, 'f', -1, 64)
	}
	if user, ok := claims["user"].(string); ok {
		out.User = user
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	return out, nil
}
