package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core"
)

// appJWTConfig is the JWT auth middleware config; ConfigureAuth finalizes it.
var appJWTConfig = middleware.JWTConfig{
	SigningMethod: middleware.AlgorithmHS256,
	ContextKey:    "userToken",
	Claims:        new(Claims),
}

var (
	appName            string
	jwtExpirationDelta time.Duration
)

// ConfigureAuth primes token issuance/verification from the app config and
// returns the credential-verifier middleware. Requests carrying no valid
// bearer token are rejected before any handler (or role check) runs.
func ConfigureAuth(conf *core.Config) echo.MiddlewareFunc {
	appName = conf.AppName
	jwtExpirationDelta = conf.Server.JWTExpirationDelta
	appJWTConfig.SigningKey = []byte(conf.SecretKey)
	return middleware.JWTWithConfig(appJWTConfig)
}

// Claims represents the authorization claims transmitted via a JWT.
// Only the identity claim lives here; roles are re-read from the store on
// every gated request so promotions and demotions bite immediately.
type Claims struct {
	jwt.StandardClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func GetClaims(name, email string) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    appName,
			Subject:   email,
			Audience:  "EduManage",
			ExpiresAt: now.Add(jwtExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  name,
		Email: email,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

type authApi struct {
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, validate *validator.Validate) {
	api := authApi{validate: validate}
	g.POST("/jwt", api.createToken)
}

// createToken mints a session credential for the supplied identity claim.
// The claim is not checked against the user store; authorization happens on
// the gated routes, never here.
func (api *authApi) createToken(ctx echo.Context) error {
	var data TokenRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TokenRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	token, err := GenerateToken(GetClaims(data.Name, data.Email))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

type (
	TokenRequest struct {
		Name  string `json:"name"`
		Email string `json:"email" validate:"required,email"`
	}

	TokenResponse struct {
		Token string `json:"token"`
	}
)

func (tr *TokenRequest) Validate(validate *validator.Validate) error {
	tr.Name = core.CleanString(tr.Name)
	tr.Email = core.CleanString(tr.Email, true /* lower */)
	return validate.Struct(tr)
}
