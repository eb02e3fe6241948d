package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core/class"
	"github.com/trezcool/edumanage/core/teacherreq"
	"github.com/trezcool/edumanage/core/user"
)

type classApi struct {
	svc      *class.Service
	validate *validator.Validate
}

func registerClassAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *class.Service,
	usrSvc *user.Service,
	reqSvc *teacherreq.Service,
	validate *validator.Validate,
) {
	api := classApi{svc: svc, validate: validate}
	admin := adminMiddleware(usrSvc)
	teacher := teacherMiddleware(reqSvc)

	cg := g.Group("/classes")

	// un-authed: the public catalog
	cg.GET("", api.queryApproved)
	cg.GET("/:id", api.retrieve)

	// authed endpoints
	cg.GET("/all", api.queryAll, jwt, admin)
	cg.POST("", api.create, jwt, teacher)
	cg.GET("/teacher/:email", api.queryByTeacher, jwt, teacher)
	cg.PATCH("/approve/:id", api.approve, jwt, admin)
	cg.PATCH("/reject/:id", api.reject, jwt, admin)
	cg.PUT("/assignment/:id", api.addAssignment, jwt, teacher)
}

// Handlers

func (api *classApi) queryApproved(ctx echo.Context) error {
	classes, err := api.svc.QueryApproved(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying approved classes")
	}
	if classes == nil {
		classes = []class.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) queryAll(ctx echo.Context) error {
	classes, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []class.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	cls, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding class by id")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) create(ctx echo.Context) error {
	var data class.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	// teachers only publish under their own email
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if data.TeacherEmail != claims.Email {
		return errHttpForbidden
	}

	cls, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *classApi) queryByTeacher(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if claims.Email != ctx.Param("email") {
		return errHttpForbidden
	}

	classes, err := api.svc.QueryByTeacher(ctx.Request().Context(), claims.Email)
	if err != nil {
		return errors.Wrap(err, "querying classes by teacher")
	}
	if classes == nil {
		classes = []class.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) approve(ctx echo.Context) error {
	if err := api.svc.Approve(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "approving class")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Class has been approved."})
}

func (api *classApi) reject(ctx echo.Context) error {
	if err := api.svc.Reject(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "rejecting class")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Class has been rejected."})
}

func (api *classApi) addAssignment(ctx echo.Context) error {
	var data class.Assignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Assignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	// only the owning teacher may attach assignments
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	cls, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding class by id")
	}
	if cls.TeacherEmail != claims.Email {
		return errHttpForbidden
	}

	if err = api.svc.AddAssignment(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "adding class assignment")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Assignment has been added."})
}
