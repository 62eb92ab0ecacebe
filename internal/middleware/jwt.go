package middleware

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"juntacomunal/internal/common"
)

const (
	msgTokenMissing = "Token ausente o invalido."
	msgTokenUserID  = "Token invalido: user_id ausente o invalido."
	tokenContextKey = "user"
)

// JWTConfig selects how bearer tokens are verified: an HS256 shared secret, or
// the keys published at JWKSURL when it is set.
type JWTConfig struct {
	Secret  string
	JWKSURL string
}

// Authenticator verifies bearer tokens and places the caller on the request
// context.
type Authenticator struct {
	verify echo.MiddlewareFunc
	jwks   *keyfunc.JWKS
}

func NewAuthenticator(cfg JWTConfig, log logrus.FieldLogger) (*Authenticator, error) {
	a := &Authenticator{}
	jwtConfig := echojwt.Config{
		ContextKey: tokenContextKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return jwt.MapClaims{}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			log.WithError(err).WithField("uri", c.Request().RequestURI).Debug("bearer token rejected")
			return common.Unauthenticated(msgTokenMissing)
		},
	}

	if cfg.JWKSURL != "" {
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				log.WithError(err).Warn("jwks refresh failed")
			},
		})
		if err != nil {
			return nil, fmt.Errorf("load jwks: %w", err)
		}
		a.jwks = jwks
		jwtConfig.KeyFunc = jwks.Keyfunc
	} else {
		jwtConfig.SigningKey = []byte(cfg.Secret)
		jwtConfig.SigningMethod = jwt.SigningMethodHS256.Alg()
	}

	a.verify = echojwt.WithConfig(jwtConfig)
	return a, nil
}

// Middleware verifies the token, then resolves the caller's id from its
// claims.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return a.verify(identity(next))
	}
}

// Close stops the background JWKS refresh.
func (a *Authenticator) Close() {
	if a.jwks != nil {
		a.jwks.EndBackground()
	}
}

func identity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return common.Unauthenticated(msgTokenMissing)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return common.Unauthenticated(msgTokenUserID)
		}
		userID, err := ResolveUserID(claims)
		if err != nil {
			return err
		}
		email, _ := claims["email"].(string)

		ctx := common.WithUser(c.Request().Context(), userID, email)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// ResolveUserID reads user_id, or sub when user_id is absent. Either may be a
// JSON string or number and must hold a positive integer.
func ResolveUserID(claims jwt.MapClaims) (int64, error) {
	raw, ok := claims["user_id"]
	if !ok || raw == nil {
		raw = claims["sub"]
	}

	var id int64
	switch v := raw.(type) {
	case string:
		parsed, err := common.ParseID("user_id", v)
		if err != nil {
			return 0, common.Unauthenticated(msgTokenUserID)
		}
		id = parsed
	case float64:
		if v != math.Trunc(v) || v < 1 || v >= math.MaxInt64 {
			return 0, common.Unauthenticated(msgTokenUserID)
		}
		id = int64(v)
	case json.Number:
		parsed, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil || parsed < 1 {
			return 0, common.Unauthenticated(msgTokenUserID)
		}
		id = parsed
	default:
		return 0, common.Unauthenticated(msgTokenUserID)
	}
	return id, nil
}
