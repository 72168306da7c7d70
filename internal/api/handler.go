// Package api exposes resumes and jobs over HTTP.
package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/cv-sync/internal/importer"
	"github.com/spigell/cv-sync/internal/jobs"
	"github.com/spigell/cv-sync/internal/model"
	"github.com/spigell/cv-sync/internal/resumes"
	"github.com/spigell/cv-sync/internal/storage"
)

type Resumes interface {
	Save(ctx context.Context, resume *model.Resume) (*resumes.SaveResult, error)
	Fetch(ctx context.Context, id string) (*model.Resume, error)
	ListForUser(ctx context.Context, userID string) ([]model.ResumeSummary, error)
}

type Jobs interface {
	FetchJobs(ctx context.Context, f jobs.Filters, p jobs.Pagination) (*jobs.Page, error)
	Job(ctx context.Context, id string) (*model.Job, error)
	SaveJob(ctx context.Context, job *model.Job) (*jobs.SaveJobResult, error)
	Locations(ctx context.Context) ([]string, error)
	EmploymentTypes(ctx context.Context) ([]string, error)
	ExperienceLevels(ctx context.Context) ([]string, error)
	SalaryRange(ctx context.Context) (model.SalaryRange, error)
	Matches(ctx context.Context, resume *model.Resume, limit int) ([]model.JobMatch, error)
}

type Importer interface {
	Parse(raw []byte, opts importer.Options) (*model.Resume, error)
}

type Handler struct {
	resumes  Resumes
	jobs     Jobs
	importer Importer
	logger   *zap.Logger
}

func NewHandler(r Resumes, j Jobs, imp Importer, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{resumes: r, jobs: j, importer: imp, logger: log}
}

// NewApp builds the fiber application with every route registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          h.handleError,
	})
	app.Use(recover.New())
	app.Use(h.logRequests)

	app.Get("/health", h.Health)

	app.Post("/resumes", h.SaveResume)
	app.Post("/resumes/import", h.ImportResume)
	app.Get("/resumes/:id", h.GetResume)
	app.Get("/resumes/:id/matches", h.MatchJobs)
	app.Get("/users/:userId/resumes", h.ListResumes)

	app.Get("/jobs", h.ListJobs)
	app.Post("/jobs", h.SaveJob)
	app.Get("/jobs/locations", h.Locations)
	app.Get("/jobs/salary-range", h.SalaryRange)
	app.Get("/jobs/employment-types", h.EmploymentTypes)
	app.Get("/jobs/experience-levels", h.ExperienceLevels)
	app.Get("/jobs/:id", h.GetJob)

	return app
}

func (h *Handler) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	h.logger.Debug("http request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("latency", time.Since(start)),
	)
	return err
}

// handleError renders errors that escape a handler, recovered panics included.
func (h *Handler) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return errorResponse(c, fe.Code, fe.Message)
	}
	return h.internalError(c, "request failed", err)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// internalError logs err and hides it from the client.
func (h *Handler) internalError(c *fiber.Ctx, step string, err error) error {
	h.logger.Error(step, zap.Error(err), zap.String("path", c.Path()))
	return errorResponse(c, fiber.StatusInternalServerError, "internal error")
}

func validID(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if _, err := uuid.Parse(value); err != nil {
		return "", false
	}
	return value, true
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
