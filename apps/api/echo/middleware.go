package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core/teacherreq"
	"github.com/trezcool/edumanage/core/user"
)

// adminMiddleware only admits callers whose stored role is admin. It must run
// after the JWT middleware; the role is looked up in the user store on every
// call so there is nothing to invalidate when roles change.
func adminMiddleware(svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			isAdmin, err := svc.IsAdmin(ctx.Request().Context(), claims.Email)
			if err != nil {
				return errors.Wrap(err, "checking admin role")
			}
			if isAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// teacherMiddleware only admits callers holding an approved teacher
// application; same contract as adminMiddleware otherwise.
func teacherMiddleware(svc *teacherreq.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			isTeacher, err := svc.IsApprovedTeacher(ctx.Request().Context(), claims.Email)
			if err != nil {
				return errors.Wrap(err, "checking teacher role")
			}
			if isTeacher {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
