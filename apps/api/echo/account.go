package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kelasku/jurnalkelas/core"
	"github.com/kelasku/jurnalkelas/core/account"
)

type accountApi struct {
	svc account.Service
}

func registerAccountAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc account.Service) {
	api := accountApi{svc: svc}

	ag := g.Group("/accounts")

	// un-authed endpoints
	// TODO: rate limit `/login`
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
	ag.GET("/subjects", api.querySubjects)

	// authed endpoints
	authed := ag.Group("", jwt)
	authed.GET("", api.query, adminMiddleware())
	authed.GET("/me", api.retrieveSelf)
}

// Handlers

func (api *accountApi) register(ctx echo.Context) error {
	var data account.NewAccount
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAccount")
	}

	acct, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, acct.View())
}

func (api *accountApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, view, err := authenticate(ctx, data.Username, data.Password, api.svc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Account: view})
}

func (api *accountApi) query(ctx echo.Context) error {
	accts, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying accounts")
	}
	views := make([]account.View, 0, len(accts))
	for _, acct := range accts {
		views = append(views, acct.View())
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *accountApi) retrieveSelf(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	acct, err := api.svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == account.ErrNotFound {
			// demo seeds have no registry entry; answer from the claims
			return ctx.JSON(http.StatusOK, account.View{
				ID:       claims.Subject,
				Username: claims.Username,
				FullName: claims.FullName,
				Email:    claims.Email,
				Role:     claims.Role,
			})
		}
		return errors.Wrap(err, "finding account by ID")
	}
	return ctx.JSON(http.StatusOK, acct.View())
}

func (api *accountApi) querySubjects(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, account.Subjects)
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token   string       `json:"token"`
		Account account.View `json:"account"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Username = core.CleanString(lr.Username)
	return core.Validate.Struct(lr)
}
