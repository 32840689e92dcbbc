package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/prathomik/sheba/core"
	"github.com/prathomik/sheba/core/user"
)

type userApi struct {
	svc      *user.Service
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *user.Service, validate *validator.Validate) {
	api := userApi{svc: svc, validate: validate}

	ug := g.Group("/users")

	// un-authed endpoints
	// TODO: rate limit `/login` & `/verify-email`
	ug.POST("/login", api.login)
	ug.POST("/verify-email", api.verifyEmail)
	ug.GET("/confirm-email", api.confirmEmail)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)
	ag.GET("/me", api.retrieveSelf)
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := authenticate(data.Email, api.svc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

// verifyEmail flips the verification flag for the supplied address. The
// portal frontend calls it from the post-registration screen; the response
// leaks nothing about unknown addresses.
func (api *userApi) verifyEmail(ctx echo.Context) error {
	var data VerifyEmailRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VerifyEmailRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.VerifyEmail(data.Email); !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "verifying email"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an account on this portal, " +
			"it has now been verified and the account can log in.",
	})
}

// confirmEmail verifies an account from the signed uid/token pair carried
// by the emailed verification link.
func (api *userApi) confirmEmail(ctx echo.Context) error {
	uid, token := ctx.QueryParam("uid"), ctx.QueryParam("token")
	usr, err := api.svc.ConfirmEmail(uid, token)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return core.NewValidationError(errors.Cause(err))
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *userApi) retrieveSelf(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

type (
	LoginRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	VerifyEmailRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (vr *VerifyEmailRequest) Validate(validate *validator.Validate) error {
	vr.Email = core.CleanString(vr.Email, true /* lower */)
	return validate.Struct(vr)
}
