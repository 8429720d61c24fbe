package echoapi

import (
	"net/http"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Sajalaxena/edu-Darshi-sub000/core"
	"github.com/Sajalaxena/edu-Darshi-sub000/core/auth"
)

const (
	contextClaimsKey = "adminClaims"
	contextTokenKey  = "adminToken"
	tokenQueryParam  = "token"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
)

func (r LoginRequest) Validate(validate *validator.Validate, translator ut.Translator) error {
	return core.TranslateValidationErrors(validate.Struct(r), translator)
}

// authMiddleware requires a live admin session. The token comes from the Authorization header,
// or from the `token` query param where headers cannot be set (websockets).
func authMiddleware(svc *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token := bearerToken(ctx.Request())
			if token == "" {
				token = ctx.QueryParam(tokenQueryParam)
			}
			claims, err := svc.Authorize(ctx.Request().Context(), token)
			if err != nil {
				return err
			}
			ctx.Set(contextClaimsKey, claims)
			ctx.Set(contextTokenKey, token)
			return next(ctx)
		}
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}

func getContextClaims(ctx echo.Context) (*auth.Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(*auth.Claims); ok {
		return claims, nil
	}
	return nil, auth.ErrUnauthorized
}

type authApi struct {
	svc        *auth.Service
	validate   *validator.Validate
	translator ut.Translator
	onLogout   func(sessionID string)
}

func registerAuthAPI(g *echo.Group, authed echo.MiddlewareFunc, deps *Deps) *authApi {
	api := &authApi{
		svc:        deps.AuthSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	ag := g.Group("/admin")
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout, authed)
	ag.GET("/me", api.me, authed)
	return api
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return badRequest(err)
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	token, claims, err := api.svc.Login(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: time.Unix(claims.ExpiresAt, 0).UTC()})
}

func (api *authApi) logout(ctx echo.Context) error {
	token, _ := ctx.Get(contextTokenKey).(string)
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Logout(ctx.Request().Context(), token); err != nil {
		return errors.Wrap(err, "logging out")
	}
	if api.onLogout != nil {
		api.onLogout(claims.Id)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"username":  claims.Username,
		"expiresAt": time.Unix(claims.ExpiresAt, 0).UTC(),
	})
}
