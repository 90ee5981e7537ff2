package handler

import (
	"context"

	"github.com/MirrorChyan/ota-agent/internal/logic"
	"github.com/MirrorChyan/ota-agent/internal/model"
	"github.com/MirrorChyan/ota-agent/internal/pkg/restserver/response"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Updater interface {
	CheckForUpdate(ctx context.Context) (logic.Status, error)
	StartUpdate(ctx context.Context) (logic.Status, error)
	Status() logic.Status
}

type UpdateHandler struct {
	logger  *zap.Logger
	updater Updater
}

func NewUpdateHandler(logger *zap.Logger, updater Updater) *UpdateHandler {
	return &UpdateHandler{
		logger:  logger,
		updater: updater,
	}
}

func (h *UpdateHandler) Register(r fiber.Router) {
	r.Get("/check", h.Check)
	r.Get("/start", h.Start)
	r.Post("/start", h.Start)
	r.Get("/status", h.Status)
}

// Check runs a synchronous update check. A failed check is still a 200, the outcome is in status and message.
func (h *UpdateHandler) Check(c *fiber.Ctx) error {
	s, err := h.updater.CheckForUpdate(c.UserContext())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(&model.CheckResponse{
		UpdateAvailable: s.UpdateAvailable,
		CurrentVersion:  s.CurrentVersion,
		LatestVersion:   s.LatestVersion,
		Status:          s.Phase.String(),
		Message:         s.Message,
	}))
}

func (h *UpdateHandler) Start(c *fiber.Ctx) error {
	s, err := h.updater.StartUpdate(c.UserContext())
	if err != nil {
		return err
	}

	h.logger.Info("Update requested",
		zap.String("run", s.RunID),
		zap.String("ip", c.IP()),
	)

	return c.Status(fiber.StatusAccepted).JSON(response.Success(&model.StartResponse{
		Started: true,
		RunID:   s.RunID,
		Message: "Update started",
	}))
}

func (h *UpdateHandler) Status(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(response.Success(h.updater.Status()))
}
