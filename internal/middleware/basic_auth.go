package middleware

import (
	"crypto/subtle"

	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/MirrorChyan/ota-agent/internal/pkg/errs"
	"github.com/MirrorChyan/ota-agent/internal/pkg/restserver/response"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"go.uber.org/zap"
)

const realm = "OTA Updater"

// NewBasicAuth guards the update endpoints. With auth disabled it passes every request through.
func NewBasicAuth(conf *config.Config) fiber.Handler {
	if !conf.Auth.Enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	var (
		username = []byte(conf.Auth.Username)
		password = []byte(conf.Auth.Password)
	)

	return basicauth.New(basicauth.Config{
		Realm: realm,
		Authorizer: func(user, pass string) bool {
			userOK := subtle.ConstantTimeCompare([]byte(user), username) == 1
			passOK := subtle.ConstantTimeCompare([]byte(pass), password) == 1
			return userOK && passOK
		},
		Unauthorized: func(c *fiber.Ctx) error {
			zap.L().Info("Rejected unauthenticated request",
				zap.String("ip", c.IP()),
				zap.String("path", c.Path()),
			)
			c.Set(fiber.HeaderWWWAuthenticate, "basic realm="+realm)
			resp := response.BusinessError(errs.ErrUnauthorized.Message()).With(errs.ErrUnauthorized.BizCode())
			return c.Status(fiber.StatusUnauthorized).JSON(resp)
		},
	})
}
