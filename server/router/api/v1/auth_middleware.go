package v1

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Mishleyn/T-Prep/server/auth"
	"github.com/Mishleyn/T-Prep/server/internal/apierrors"
	"github.com/Mishleyn/T-Prep/store"
)

const userContextKey = "tprep-user"

// AuthMiddleware authenticates the bearer token and stores the user on the
// echo context.
func (s *APIV1Service) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractBearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if token == "" {
			return apierrors.Unauthenticated("missing access token")
		}

		claims, err := auth.ParseAccessToken(token, []byte(s.Secret))
		if err != nil {
			return apierrors.Unauthenticated("invalid or expired access token")
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 32)
		if err != nil {
			return apierrors.Unauthenticated("malformed access token subject")
		}

		id := int32(userID)
		user, err := s.Store.GetUser(c.Request().Context(), &store.FindUser{ID: &id})
		if err != nil {
			return apierrors.Internal("failed to load user", err)
		}
		if user == nil {
			return apierrors.Unauthenticated("user no longer exists")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// currentUser returns the authenticated user stored by AuthMiddleware.
func currentUser(c echo.Context) *store.User {
	user, _ := c.Get(userContextKey).(*store.User)
	return user
}
