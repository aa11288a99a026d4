package api

import (
	"bytes"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"mlfq-simulator/internal/core"
	"mlfq-simulator/internal/logging"
	"mlfq-simulator/internal/report"
	"mlfq-simulator/internal/requests"
	"mlfq-simulator/internal/responses"
	"mlfq-simulator/internal/schedulers"
)

type SchedulerHandler interface {
	MultilevelFeedbackQueue(ctx *fiber.Ctx) error
	Report(ctx *fiber.Ctx) error
	Config(ctx *fiber.Ctx) error
}
type SchedulerHandlerImpl struct {
	levels  []core.QueueLevel
	logger  *slog.Logger
	options []schedulers.Option
}

func NewSchedulerHandlerImpl(levels []core.QueueLevel, logger *slog.Logger, options ...schedulers.Option) (*SchedulerHandlerImpl, error) {
	if err := core.ValidateLevels(levels); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &SchedulerHandlerImpl{levels: levels, logger: logger, options: options}, nil
}

// NewApp builds the fiber application serving handler under /api/v1.
func NewApp(handler SchedulerHandler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	api := app.Group("/api")

	v1 := api.Group("/v1")
	{
		v1.Post("/mlfq", handler.MultilevelFeedbackQueue)
		v1.Post("/mlfq/report", handler.Report)
		v1.Get("/mlfq/config", handler.Config)
	}
	return app
}

func (s *SchedulerHandlerImpl) MultilevelFeedbackQueue(ctx *fiber.Ctx) error {
	response, ok, err := s.schedule(ctx)
	if !ok {
		return err
	}
	return ctx.JSON(response)
}

func (s *SchedulerHandlerImpl) Report(ctx *fiber.Ctx) error {
	response, ok, err := s.schedule(ctx)
	if !ok {
		return err
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, response); err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return ctx.Send(buf.Bytes())
}

func (s *SchedulerHandlerImpl) Config(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"levels": s.levels})
}

// schedule runs the request body through the scheduler. When ok is false the
// error response has already been written and err is what the handler returns.
func (s *SchedulerHandlerImpl) schedule(ctx *fiber.Ctx) (response responses.ScheduleResponse, ok bool, err error) {
	var request requests.ScheduleRequests
	if err := ctx.BodyParser(&request); err != nil {
		s.logger.Warn("invalid request format", logging.ErrAttr(err))
		return response, false, ctx.Status(fiber.StatusBadRequest).JSON(responses.ErrorResponse{Error: "invalid request format"})
	}
	response, err = schedulers.ScheduleMultilevelFeedbackQueue(ctx.UserContext(), &request, s.levels, s.logger, s.options...)
	var validationErrors core.ValidationErrors
	switch {
	case err == nil:
		return response, true, nil
	case errors.Is(err, core.ErrEmptyWorkload):
		return response, false, ctx.Status(fiber.StatusUnprocessableEntity).JSON(responses.ErrorResponse{Error: err.Error()})
	case errors.As(err, &validationErrors):
		s.logger.Info("rejected workload", logging.ErrAttr(err))
		return response, false, ctx.Status(fiber.StatusBadRequest).JSON(responses.ErrorResponse{Error: "invalid process data", Details: validationErrors})
	}
	s.logger.Error("can not process request", logging.ErrAttr(err))
	return response, false, ctx.Status(fiber.StatusInternalServerError).JSON(responses.ErrorResponse{Error: "can not process request"})
}
