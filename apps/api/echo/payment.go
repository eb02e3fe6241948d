package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core/class"
	"github.com/trezcool/edumanage/core/payment"
)

type paymentApi struct {
	svc      *payment.Service
	validate *validator.Validate
}

func registerPaymentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *payment.Service, validate *validator.Validate) {
	api := paymentApi{svc: svc, validate: validate}

	// un-authed: the frontend needs the client secret before checkout
	g.POST("/create-payment-intent/:id", api.createIntent)

	// authed endpoints
	g.POST("/payments", api.record, jwt)
	g.GET("/enrollments", api.listEnrollments, jwt)
}

// Handlers

func (api *paymentApi) createIntent(ctx echo.Context) error {
	var data IntentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to IntentRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	clientSecret, err := api.svc.CreateIntent(ctx.Request().Context(), ctx.Param("id"), data.Price)
	if err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "creating payment intent")
	}
	return ctx.JSON(http.StatusOK, IntentResponse{ClientSecret: clientSecret})
}

func (api *paymentApi) record(ctx echo.Context) error {
	var data payment.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.Record(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording payment")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *paymentApi) listEnrollments(ctx echo.Context) error {
	email := ctx.QueryParam("email")
	if email == "" {
		return errEmailParamRequired
	}

	payments, err := api.svc.ListByEmail(ctx.Request().Context(), email)
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	if payments == nil {
		payments = []payment.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}

type (
	IntentRequest struct {
		Price float64 `json:"price" validate:"required,gte=0"`
	}

	IntentResponse struct {
		ClientSecret string `json:"clientSecret"`
	}
)
