package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Mishleyn/T-Prep/internal/util"
	"github.com/Mishleyn/T-Prep/server/auth"
	"github.com/Mishleyn/T-Prep/server/internal/apierrors"
	"github.com/Mishleyn/T-Prep/store"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type registerResponse struct {
	Message string `json:"message"`
	ID      int32  `json:"id"`
	Email   string `json:"email"`
}

// Register creates a new user account. The email must not be taken.
func (s *APIV1Service) Register(c echo.Context) error {
	ctx := c.Request().Context()

	request := &registerRequest{}
	if err := c.Bind(request); err != nil {
		return apierrors.InvalidArgument("malformed register request")
	}
	if err := s.validate.Struct(request); err != nil {
		return apierrors.InvalidArgument(err.Error())
	}
	if !util.ValidateEmail(request.Email) {
		return apierrors.InvalidArgument("invalid email address")
	}

	existing, err := s.Store.GetUser(ctx, &store.FindUser{Email: &request.Email})
	if err != nil {
		return apierrors.Internal("failed to look up user", err)
	}
	if existing != nil {
		return apierrors.AlreadyExists("email already registered")
	}

	passwordHash, err := auth.HashPassword(request.Password)
	if err != nil {
		return apierrors.Internal("failed to hash password", err)
	}

	user, err := s.Store.CreateUser(ctx, &store.User{
		Email:        request.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		// A racing registration can slip past the existence check and lose
		// to the unique index instead.
		if store.IsUniqueViolation(err) {
			return apierrors.AlreadyExists("email already registered")
		}
		return apierrors.Internal("failed to create user", err)
	}

	return c.JSON(http.StatusOK, registerResponse{
		Message: "User registered successfully",
		ID:      user.ID,
		Email:   user.Email,
	})
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SignIn exchanges form credentials for a bearer token. The form field names
// follow the OAuth2 password flow so stock clients work unchanged.
func (s *APIV1Service) SignIn(c echo.Context) error {
	ctx := c.Request().Context()

	email := c.FormValue("username")
	password := c.FormValue("password")
	if email == "" || password == "" {
		return apierrors.InvalidArgument("username and password are required")
	}

	user, err := s.Store.GetUser(ctx, &store.FindUser{Email: &email})
	if err != nil {
		return apierrors.Internal("failed to look up user", err)
	}
	// Same error for unknown email and wrong password, do not leak which.
	if user == nil || !auth.VerifyPassword(password, user.PasswordHash) {
		return apierrors.InvalidCredentials("incorrect email or password")
	}

	accessToken, err := auth.GenerateAccessToken(user.ID, user.Email, time.Now().Add(auth.AccessTokenDuration), []byte(s.Secret))
	if err != nil {
		return apierrors.Internal("failed to issue access token", err)
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: accessToken, TokenType: "bearer"})
}
