package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/kelasku/jurnalkelas/core"
	"github.com/kelasku/jurnalkelas/core/account"
)

var (
	// appJWTConfig is the default JWT auth middleware config.
	appJWTConfig = middleware.JWTConfig{
		SigningKey:    []byte(core.Conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "accountToken",
		Claims:        new(Claims),
	}
)

// Claims represents the authorization claims transmitted via a JWT.
// Subject carries the account ID and LoginTime the authentication instant.
type Claims struct {
	jwt.StandardClaims
	Username  string `json:"username,omitempty"`
	FullName  string `json:"namaLengkap,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	LoginTime int64  `json:"loginTime,omitempty"`
}

func (c Claims) IsStudent() bool { return c.Role == account.RoleStudent }
func (c Claims) IsTeacher() bool { return c.Role == account.RoleTeacher }
func (c Claims) IsAdmin() bool   { return c.Role == account.RoleAdmin }

func GetAccountClaims(view account.View) *Claims {
	now := time.Now()
	nownix := now.Unix()

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   view.ID,
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		Username:  view.Username,
		FullName:  view.FullName,
		Email:     view.Email,
		Role:      view.Role,
		LoginTime: nownix,
	}
}

func authenticate(ctx echo.Context, uname, pwd string, svc account.Service) (*Claims, account.View, error) {
	view, err := svc.Authenticate(ctx.Request().Context(), uname, pwd)
	if err != nil {
		if errors.Cause(err) == account.ErrAuthenticationFailed {
			return nil, account.View{}, errAuthenticationFailed
		}
		return nil, account.View{}, errors.Wrap(err, "authenticating")
	}
	return GetAccountClaims(view), view, nil
}

// GenerateToken generates a signed JWT token string representing the account Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
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
