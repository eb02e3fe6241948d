package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core/user"
)

type userApi struct {
	svc      *user.Service
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *user.Service, validate *validator.Validate) {
	api := userApi{svc: svc, validate: validate}
	admin := adminMiddleware(svc)

	ug := g.Group("/users")

	// un-authed: sign-up happens before any credential exists
	ug.POST("", api.create)

	// authed endpoints
	ug.GET("", api.query, jwt, admin)
	ug.GET("/admin/:email", api.checkAdmin, jwt)
	ug.PATCH("/:id/admin", api.promoteAdmin, jwt, admin)
	ug.DELETE("/:id", api.destroy, jwt, admin)
}

// Handlers

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) query(ctx echo.Context) error {
	users, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

// checkAdmin reports whether the caller holds the admin role. Callers may
// only probe their own email.
func (api *userApi) checkAdmin(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if claims.Email != ctx.Param("email") {
		return errHttpForbidden
	}

	isAdmin, err := api.svc.IsAdmin(ctx.Request().Context(), claims.Email)
	if err != nil {
		return errors.Wrap(err, "checking admin role")
	}
	return ctx.JSON(http.StatusOK, AdminCheckResponse{Admin: isAdmin})
}

// promoteAdmin is idempotent: promoting an admin again leaves the role as is.
func (api *userApi) promoteAdmin(ctx echo.Context) error {
	if err := api.svc.PromoteAdmin(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "promoting user to admin")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "User has been promoted to admin."})
}

func (api *userApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	AdminCheckResponse struct {
		Admin bool `json:"admin"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)
