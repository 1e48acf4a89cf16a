package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobops-service/internal/access"
	"github.com/spec-kit/jobops-service/internal/api/dto"
	"github.com/spec-kit/jobops-service/internal/auth"
	"github.com/spec-kit/jobops-service/internal/domain"
	"github.com/spec-kit/jobops-service/internal/repository"
	"github.com/spec-kit/jobops-service/internal/service"
	apperrors "github.com/spec-kit/jobops-service/pkg/util"
)

// JobsHandler exposes job lifecycle endpoints.
type JobsHandler struct {
	jobs *service.JobService
}

// NewJobsHandler constructs handler.
func NewJobsHandler(jobService *service.JobService) *JobsHandler {
	return &JobsHandler{jobs: jobService}
}

// CreateJob POST /jobs.
func (h *JobsHandler) CreateJob(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.ClientName == "" {
		return apperrors.NewValidationError("title and client_name required", nil)
	}

	job, err := h.jobs.CreateJob(c.Context(), actor, service.JobCreateInput{
		Title:         req.Title,
		Description:   req.Description,
		ClientName:    req.ClientName,
		AssignedTo:    req.AssignedTo,
		Priority:      req.Priority,
		ScheduledDate: req.ScheduledDate,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewJobResponse(job)})
}

// ListJobs GET /jobs.
func (h *JobsHandler) ListJobs(c *fiber.Ctx) error {
	filter := parseJobQuery(c)
	jobs, err := h.jobs.ListJobs(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, dto.NewJobResponse(&jobs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetJob GET /jobs/:id.
func (h *JobsHandler) GetJob(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	job, err := h.jobs.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if !access.CanAccessJob(principal.User, job) {
		return apperrors.NewForbidden("no access to this job")
	}
	return c.JSON(fiber.Map{"data": dto.NewJobResponse(job)})
}

// UpdateJob PUT /jobs/:id.
func (h *JobsHandler) UpdateJob(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	job, err := h.jobs.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if !access.CanAccessJob(principal.User, job) {
		return apperrors.NewForbidden("no access to this job")
	}

	var req dto.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	updated, err := h.jobs.UpdateJob(c.Context(), service.Actor{UserID: principal.User.ID, IP: principal.IP}, job.ID, service.JobUpdateInput{
		Title:         req.Title,
		Description:   req.Description,
		ClientName:    req.ClientName,
		AssignedTo:    req.AssignedTo,
		ClearAssignee: req.ClearAssignee,
		Status:        req.Status,
		Priority:      req.Priority,
		ScheduledDate: req.ScheduledDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewJobResponse(updated)})
}

// DeleteJob DELETE /jobs/:id.
func (h *JobsHandler) DeleteJob(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	job, err := h.jobs.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if !access.CanAccessJob(principal.User, job) {
		return apperrors.NewForbidden("no access to this job")
	}
	if err := h.jobs.DeleteJob(c.Context(), service.Actor{UserID: principal.User.ID, IP: principal.IP}, job.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func parseJobQuery(c *fiber.Ctx) repository.JobFilter {
	filter := repository.JobFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.JobStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			if parsed, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				filter.Priorities = append(filter.Priorities, parsed)
			}
		}
	}
	if overdueStr := c.Query("overdue"); overdueStr != "" {
		overdue := overdueStr == "true" || overdueStr == "1"
		filter.Overdue = &overdue
	}
	if assignee := c.Query("assigned_to"); assignee != "" {
		filter.AssignedTo = &assignee
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	filter.Limit, filter.Offset = parsePagination(c)
	return filter
}

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	return pageSize, (page - 1) * pageSize
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
