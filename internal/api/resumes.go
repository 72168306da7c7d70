package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spigell/cv-sync/internal/importer"
	"github.com/spigell/cv-sync/internal/jobs"
	"github.com/spigell/cv-sync/internal/model"
	"github.com/spigell/cv-sync/internal/resumes"
)

type saveResponse struct {
	Success          bool     `json:"success"`
	ResumeID         string   `json:"resumeId"`
	FailedSections   []string `json:"failedSections,omitempty"`
	EmbeddingError   string   `json:"embeddingError,omitempty"`
	EmbeddingSkipped bool     `json:"embeddingSkipped,omitempty"`
}

func saveResponseOf(result *resumes.SaveResult) saveResponse {
	resp := saveResponse{
		Success:          result.Success,
		ResumeID:         result.ResumeID,
		FailedSections:   result.FailedSections(),
		EmbeddingSkipped: result.EmbeddingSkipped,
	}
	if result.EmbeddingErr != nil {
		resp.EmbeddingError = result.EmbeddingErr.Error()
	}
	return resp
}

func (h *Handler) SaveResume(c *fiber.Ctx) error {
	var resume model.Resume
	if err := c.BodyParser(&resume); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid payload")
	}

	if resume.ID != "" {
		id, ok := validID(resume.ID)
		if !ok {
			return errorResponse(c, fiber.StatusBadRequest, "invalid resume id")
		}
		resume.ID = id
	}

	return h.save(c, &resume, fiber.StatusOK)
}

func (h *Handler) save(c *fiber.Ctx, resume *model.Resume, status int) error {
	result, err := h.resumes.Save(c.UserContext(), resume)
	if isNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "resume not found")
	}
	if err != nil {
		return h.internalError(c, "saving resume", err)
	}

	return c.Status(status).JSON(saveResponseOf(result))
}

// ImportResume validates extractor output and saves it as a new resume.
func (h *Handler) ImportResume(c *fiber.Ctx) error {
	resume, err := h.importer.Parse(c.Body(), importer.Options{
		UserID: c.Query("userId"),
		Title:  c.Query("title"),
	})

	var validation *importer.ValidationError
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "invalid import document",
			"problems": validation.Problems,
		})
	}
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid payload")
	}

	return h.save(c, resume, fiber.StatusCreated)
}

func (h *Handler) GetResume(c *fiber.Ctx) error {
	id, ok := validID(c.Params("id"))
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "invalid resume id")
	}

	resume, err := h.resumes.Fetch(c.UserContext(), id)
	if err != nil {
		return h.internalError(c, "fetching resume", err)
	}
	if resume == nil {
		return errorResponse(c, fiber.StatusNotFound, "resume not found")
	}

	return c.JSON(resume)
}

func (h *Handler) ListResumes(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "invalid user id")
	}

	summaries, err := h.resumes.ListForUser(c.UserContext(), userID)
	if err != nil {
		return h.internalError(c, "listing resumes", err)
	}

	return c.JSON(fiber.Map{"resumes": summaries})
}

func (h *Handler) MatchJobs(c *fiber.Ctx) error {
	id, ok := validID(c.Params("id"))
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "invalid resume id")
	}

	resume, err := h.resumes.Fetch(c.UserContext(), id)
	if err != nil {
		return h.internalError(c, "fetching resume", err)
	}
	if resume == nil {
		return errorResponse(c, fiber.StatusNotFound, "resume not found")
	}

	matches, err := h.jobs.Matches(c.UserContext(), resume, c.QueryInt("limit"))
	if errors.Is(err, jobs.ErrNoEmbedding) {
		return errorResponse(c, fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return h.internalError(c, "matching jobs", err)
	}

	return c.JSON(fiber.Map{"matches": matches})
}
