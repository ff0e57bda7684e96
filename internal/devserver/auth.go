package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// tokenIssuer signs and verifies HS256 bearer tokens whose subject is the user's email.
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

func (t *tokenIssuer) issue(email string) (string, error) {
	now := t.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate authentication token")
	}
	return signed, nil
}

// verify returns the subject of a valid token.
func (t *tokenIssuer) verify(token string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	var claims jwt.RegisteredClaims
	if _, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}); err != nil {
		return "", errors.Wrap(err, "error parsing jwt")
	}
	// Expiry is checked against the injected clock rather than the wall clock.
	if claims.ExpiresAt != nil && !t.clock.Now().Before(claims.ExpiresAt.Time) {
		return "", jwt.ErrTokenExpired
	}
	return claims.Subject, nil
}

// processAuthentication is a middleware that resolves the bearer token into the request user.
func (s *Server) processAuthentication(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authRaw := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(authRaw, "Bearer ") {
			return echo.NewHTTPError(http.StatusUnauthorized, "Error: Unauthorized")
		}
		email, err := s.tokens.verify(strings.TrimPrefix(authRaw, "Bearer "))
		if err != nil {
			s.log.WithError(err).Debug("rejected bearer token")
			return echo.NewHTTPError(http.StatusUnauthorized, "Error: Unauthorized")
		}
		user, err := s.store.userByEmail(email)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Error: Unauthorized")
		}
		c.(*DevContext).SetUser(user)
		return next(c)
	}
}
