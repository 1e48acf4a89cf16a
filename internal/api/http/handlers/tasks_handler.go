package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobops-service/internal/access"
	"github.com/spec-kit/jobops-service/internal/api/dto"
	"github.com/spec-kit/jobops-service/internal/auth"
	"github.com/spec-kit/jobops-service/internal/domain"
	"github.com/spec-kit/jobops-service/internal/service"
	apperrors "github.com/spec-kit/jobops-service/pkg/util"
)

// TasksHandler exposes task lifecycle endpoints.
type TasksHandler struct {
	tasks *service.TaskService
	jobs  *service.JobService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService, jobService *service.JobService) *TasksHandler {
	return &TasksHandler{tasks: taskService, jobs: jobService}
}

// CreateTask POST /jobs/:id/tasks.
func (h *TasksHandler) CreateTask(c *fiber.Ctx) error {
	principal, job, err := h.jobForTask(c, c.Params("id"))
	if err != nil {
		return err
	}
	if !access.CanManageTasks(principal.User, job) {
		return apperrors.NewForbidden("no access to this job's tasks")
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" {
		return apperrors.NewValidationError("title required", nil)
	}

	task, err := h.tasks.CreateTask(c.Context(), actorFrom(principal), job.ID, service.TaskCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Order:        req.Order,
		EquipmentIDs: req.EquipmentIDs,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// ListTasks GET /jobs/:id/tasks.
func (h *TasksHandler) ListTasks(c *fiber.Ctx) error {
	principal, job, err := h.jobForTask(c, c.Params("id"))
	if err != nil {
		return err
	}
	if !access.CanManageTasks(principal.User, job) {
		return apperrors.NewForbidden("no access to this job's tasks")
	}
	tasks, err := h.tasks.ListTasks(c.Context(), job.ID)
	if err != nil {
		return err
	}
	items := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, dto.NewTaskResponse(&tasks[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTask GET /tasks/:id.
func (h *TasksHandler) GetTask(c *fiber.Ctx) error {
	_, task, err := h.taskWithAccess(c, access.CanManageTasks)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// UpdateTask PUT /tasks/:id.
func (h *TasksHandler) UpdateTask(c *fiber.Ctx) error {
	principal, task, err := h.taskWithAccess(c, access.CanManageTasks)
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	updated, err := h.tasks.UpdateTask(c.Context(), actorFrom(principal), task.ID, service.TaskUpdateInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Order:        req.Order,
		EquipmentIDs: req.EquipmentIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(updated)})
}

// UpdateTaskStatus POST /tasks/:id/status. Only the assigned technician may
// invoke the dedicated status operation.
func (h *TasksHandler) UpdateTaskStatus(c *fiber.Ctx) error {
	principal, task, err := h.taskWithAccess(c, access.CanUpdateTaskStatus)
	if err != nil {
		return err
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	updated, err := h.tasks.UpdateStatus(c.Context(), actorFrom(principal), task.ID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(updated)})
}

// DeleteTask DELETE /tasks/:id.
func (h *TasksHandler) DeleteTask(c *fiber.Ctx) error {
	principal, task, err := h.taskWithAccess(c, access.CanManageTasks)
	if err != nil {
		return err
	}
	if err := h.tasks.DeleteTask(c.Context(), actorFrom(principal), task.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func (h *TasksHandler) jobForTask(c *fiber.Ctx, jobID string) (*auth.Principal, *domain.Job, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, nil, apperrors.NewUnauthorized("user required")
	}
	job, err := h.jobs.GetJob(c.Context(), jobID)
	if err != nil {
		return nil, nil, err
	}
	return principal, job, nil
}

// taskWithAccess loads the task and its parent job, then applies the given
// access gate against the parent job.
func (h *TasksHandler) taskWithAccess(c *fiber.Ctx, gate func(*domain.User, *domain.Job) bool) (*auth.Principal, *domain.JobTask, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, nil, apperrors.NewUnauthorized("user required")
	}
	task, err := h.tasks.GetTask(c.Context(), c.Params("id"))
	if err != nil {
		return nil, nil, err
	}
	job, err := h.jobs.GetJob(c.Context(), task.JobID)
	if err != nil {
		return nil, nil, err
	}
	if !gate(principal.User, job) {
		return nil, nil, apperrors.NewForbidden("no access to this task")
	}
	return principal, task, nil
}

func actorFrom(principal *auth.Principal) service.Actor {
	return service.Actor{UserID: principal.User.ID, IP: principal.IP}
}
