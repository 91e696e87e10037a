package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kelasku/jurnalkelas/core/authcode"
)

type authCodeApi struct {
	svc authcode.Service
}

func registerAuthCodeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc authcode.Service) {
	api := authCodeApi{svc: svc}

	cg := g.Group("/authcodes", jwt, adminMiddleware())
	cg.POST("", api.issue)
	cg.GET("", api.query)
}

// Handlers

func (api *authCodeApi) issue(ctx echo.Context) error {
	var data authcode.NewCode
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCode")
	}

	// the issuer is always the authenticated admin, never the payload
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	data.IssuedBy = claims.Username

	code, err := api.svc.Issue(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, code)
}

func (api *authCodeApi) query(ctx echo.Context) error {
	codes, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying auth codes")
	}
	if codes == nil {
		codes = []authcode.Code{}
	}
	return ctx.JSON(http.StatusOK, codes)
}
