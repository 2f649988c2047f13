package http

import (
	"errors"
	"net/http"
	"strings"

	"orderflow/internal/pkg/authtoken"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const principalContextKey = "principal"

// ErrorResponse is the uniform error body for every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JWTAuth verifies the Authorization bearer token and stores the
// authenticated principal on the request context.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return respondError(ctx, errs.NewAuthenticationError("missing bearer token"))
			}

			principal, err := authtoken.Parse(secret, tokenString)
			if err != nil {
				return respondError(ctx, err)
			}

			ctx.Set(principalContextKey, principal)
			return next(ctx)
		}
	}
}

func currentPrincipal(ctx echo.Context) (authtoken.Principal, error) {
	principal, ok := ctx.Get(principalContextKey).(authtoken.Principal)
	if !ok {
		return authtoken.Principal{}, errs.NewAuthenticationError("request is not authenticated")
	}
	return principal, nil
}

// respondError maps the application failure classes to HTTP statuses.
func respondError(ctx echo.Context, err error) error {
	code := statusForError(err)
	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, errs.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
