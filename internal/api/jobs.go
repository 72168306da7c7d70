package api

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spigell/cv-sync/internal/jobs"
	"github.com/spigell/cv-sync/internal/model"
)

func (h *Handler) ListJobs(c *fiber.Ctx) error {
	var (
		filters jobs.Filters
		page    jobs.Pagination
	)
	if err := c.QueryParser(&filters); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid filters")
	}
	if err := c.QueryParser(&page); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid pagination")
	}

	filters.EmploymentTypes = splitList(filters.EmploymentTypes)
	filters.ExperienceLevels = splitList(filters.ExperienceLevels)
	filters.ExcludeCompanies = nonBlank(filters.ExcludeCompanies)
	filters.Locations = nonBlank(filters.Locations)

	result, err := h.jobs.FetchJobs(c.UserContext(), filters, page)
	if err != nil {
		return h.internalError(c, "fetching jobs", err)
	}

	return c.JSON(result)
}

// splitList accepts both repeated params and comma separated values. Locations
// are never split since they contain commas themselves.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, nonBlank(strings.Split(v, ","))...)
	}
	return out
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (h *Handler) GetJob(c *fiber.Ctx) error {
	id, ok := validID(c.Params("id"))
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "invalid job id")
	}

	job, err := h.jobs.Job(c.UserContext(), id)
	if isNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "job not found")
	}
	if err != nil {
		return h.internalError(c, "fetching job", err)
	}

	return c.JSON(job)
}

func (h *Handler) SaveJob(c *fiber.Ctx) error {
	var job model.Job
	if err := c.BodyParser(&job); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid payload")
	}
	if job.ID != "" {
		id, ok := validID(job.ID)
		if !ok {
			return errorResponse(c, fiber.StatusBadRequest, "invalid job id")
		}
		job.ID = id
	}

	result, err := h.jobs.SaveJob(c.UserContext(), &job)
	if errors.Is(err, jobs.ErrInvalidJob) {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	if isNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "job not found")
	}
	if err != nil {
		return h.internalError(c, "saving job", err)
	}

	resp := fiber.Map{"id": result.ID}
	if result.EmbeddingErr != nil {
		resp["embeddingError"] = result.EmbeddingErr.Error()
	}
	return c.JSON(resp)
}

func (h *Handler) Locations(c *fiber.Ctx) error {
	return h.distinct(c, "locations", h.jobs.Locations)
}

func (h *Handler) EmploymentTypes(c *fiber.Ctx) error {
	return h.distinct(c, "employmentTypes", h.jobs.EmploymentTypes)
}

func (h *Handler) ExperienceLevels(c *fiber.Ctx) error {
	return h.distinct(c, "experienceLevels", h.jobs.ExperienceLevels)
}

func (h *Handler) distinct(c *fiber.Ctx, key string, load func(context.Context) ([]string, error)) error {
	values, err := load(c.UserContext())
	if err != nil {
		return h.internalError(c, "loading "+key, err)
	}
	if values == nil {
		values = []string{}
	}
	return c.JSON(fiber.Map{key: values})
}

func (h *Handler) SalaryRange(c *fiber.Ctx) error {
	r, err := h.jobs.SalaryRange(c.UserContext())
	if err != nil {
		return h.internalError(c, "loading salary range", err)
	}
	return c.JSON(r)
}
