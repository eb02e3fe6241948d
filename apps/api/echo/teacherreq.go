package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core/teacherreq"
	"github.com/trezcool/edumanage/core/user"
)

type teacherReqApi struct {
	svc      *teacherreq.Service
	validate *validator.Validate
}

func registerTeacherRequestAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *teacherreq.Service,
	usrSvc *user.Service,
	validate *validator.Validate,
) {
	api := teacherReqApi{svc: svc, validate: validate}
	admin := adminMiddleware(usrSvc)

	tg := g.Group("/teacher-req", jwt)
	tg.POST("", api.create)
	tg.GET("", api.query, admin)
	tg.GET("/teacher/:email", api.checkTeacher)
	tg.PATCH("/approve/:id", api.approve, admin)
	tg.PATCH("/reject/:id", api.reject, admin)
}

// Handlers

func (api *teacherReqApi) create(ctx echo.Context) error {
	var data teacherreq.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	// applications are filed for the caller's own email
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if data.Email != claims.Email {
		return errHttpForbidden
	}

	req, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher request")
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *teacherReqApi) query(ctx echo.Context) error {
	reqs, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teacher requests")
	}
	if reqs == nil {
		reqs = []teacherreq.Request{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

// checkTeacher reports whether the caller holds an approved teacher
// application. Callers may only probe their own email.
func (api *teacherReqApi) checkTeacher(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if claims.Email != ctx.Param("email") {
		return errHttpForbidden
	}

	isTeacher, err := api.svc.IsApprovedTeacher(ctx.Request().Context(), claims.Email)
	if err != nil {
		return errors.Wrap(err, "checking teacher role")
	}
	return ctx.JSON(http.StatusOK, TeacherCheckResponse{Teacher: isTeacher})
}

func (api *teacherReqApi) approve(ctx echo.Context) error {
	if err := api.svc.Approve(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == teacherreq.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "approving teacher request")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Teacher request has been approved."})
}

func (api *teacherReqApi) reject(ctx echo.Context) error {
	if err := api.svc.Reject(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == teacherreq.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "rejecting teacher request")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Teacher request has been rejected."})
}

type TeacherCheckResponse struct {
	Teacher bool `json:"teacher"`
}
