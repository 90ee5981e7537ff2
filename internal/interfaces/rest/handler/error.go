package handler

import (
	"github.com/MirrorChyan/ota-agent/internal/pkg/errs"
	"github.com/MirrorChyan/ota-agent/internal/pkg/restserver/response"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func Error(c *fiber.Ctx, err error) error {

	var (
		fe *fiber.Error
		be *errs.Error
	)

	switch {

	case err == nil:
		return nil

	case errors.As(err, &fe):
		return fiber.DefaultErrorHandler(c, fe)

	case errors.As(err, &be):
		resp := response.BusinessError(
			be.Message(),
			be.Details(),
		).With(be.BizCode())
		return c.Status(be.HTTPCode()).JSON(resp)

	default:
		zap.L().Error("unexpected error",
			zap.Error(err),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		)
		resp := response.UnexpectedError()
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
}
