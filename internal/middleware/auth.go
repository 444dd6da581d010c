package middleware

import (
	"clarify-api/internal/setup"
	"clarify-api/internal/shared"
	"clarify-api/internal/users"

	"github.com/labstack/echo/v4"
)

type Auth struct {
	users *users.Manager
}

func NewAuth(u *users.Manager) *Auth {
	return &Auth{users: u}
}

// ExtractUser resolves the caller's identity when a valid session token is
// present. It never rejects; routes decide whether a user is required.
func (a *Auth) ExtractUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(cc echo.Context) error {
		c := cc.(*setup.Context)
		c.User = nil

		token, err := shared.ExtractSessionToken(c)
		if err != nil {
			return next(c)
		}
		user, err := a.users.GetFromToken(c.Request().Context(), token)
		if err != nil {
			return next(c)
		}
		c.User = user
		c.Log = c.Log.With("user_id", c.User.UserID)
		return next(c)
	}
}

func (a *Auth) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(cc echo.Context) error {
		c := cc.(*setup.Context)
		if c.User == nil {
			return c.JSON(401, shared.ErrorResponse{Error: shared.ErrUnauthorized.Err.Error()})
		}
		return next(c)
	}
}
