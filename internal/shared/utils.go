// Package shared
package shared

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// ExtractSessionToken pulls the bearer session token minted by the identity
// provider out of the Authorization header.
func ExtractSessionToken(c echo.Context) (string, error) {
	auth := c.Request().Header.Get("Authorization")
	if auth == "" {
		return "", ErrMissingAuth
	}

	// Validate bearer format
	parts := strings.Split(auth, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", ErrInvalidFormat
	}

	token := parts[1]

	// Validate token length
	if len(token) != SessionTokenLength {
		return "", ErrInvalidTokenLen
	}

	return token, nil
}
