package mockapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Joseda-hg/lazyproject/internal/apperrors"
	"github.com/Joseda-hg/lazyproject/internal/db"
	"github.com/Joseda-hg/lazyproject/internal/model"
	"github.com/labstack/echo/v4"
)

// envelope is the body of every successful API response.
type envelope struct {
	Result any `json:"result"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	if err := s.store.DB.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleListProjects reads the statusFilter form field. An empty filter lists
// every project that is not deleted.
func (s *Server) handleListProjects(c echo.Context) error {
	projects, err := s.store.ListProjects(c.Request().Context(), currentUser(c), c.FormValue("statusFilter"))
	if err != nil {
		return storeError(err, "project")
	}
	return c.JSON(http.StatusOK, envelope{Result: map[string]any{"projects": projects}})
}

// handleCreateProject answers with the project directly under result.
func (s *Server) handleCreateProject(c echo.Context) error {
	var input model.ProjectInput
	if err := c.Bind(&input); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if strings.TrimSpace(input.Title) == "" {
		return apperrors.ValidationError("title is required")
	}

	project, err := s.store.CreateProject(c.Request().Context(), currentUser(c), input)
	if err != nil {
		return storeError(err, "project")
	}
	return c.JSON(http.StatusCreated, envelope{Result: project})
}

// handleEditProject answers with the project under result.project.
func (s *Server) handleEditProject(c echo.Context) error {
	var patch model.ProjectPatch
	if err := c.Bind(&patch); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return apperrors.ValidationError("title cannot be empty")
	}

	project, err := s.store.UpdateProject(c.Request().Context(), currentUser(c), c.Param("id"), patch)
	if err != nil {
		return storeError(err, "project")
	}
	return c.JSON(http.StatusOK, envelope{Result: map[string]any{"project": project}})
}

func (s *Server) handleChangeProjectStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if strings.TrimSpace(req.Status) == "" {
		return apperrors.ValidationError("status is required")
	}

	project, err := s.store.SetProjectStatus(c.Request().Context(), currentUser(c), c.Param("id"), req.Status)
	if err != nil {
		return storeError(err, "project")
	}
	return c.JSON(http.StatusOK, envelope{Result: map[string]any{"project": project}})
}

func (s *Server) handleListTasks(c echo.Context) error {
	tasks, err := s.store.ListTasks(c.Request().Context(), currentUser(c), c.Param("projectId"))
	if err != nil {
		return storeError(err, "project")
	}
	return c.JSON(http.StatusOK, envelope{Result: map[string]any{"tasks": tasks}})
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var input model.TaskInput
	if err := c.Bind(&input); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	switch {
	case strings.TrimSpace(input.Title) == "":
		return apperrors.ValidationError("title is required")
	case input.ProjectID == "":
		return apperrors.ValidationError("projectId is required")
	}
	if err := validateDueDate(input.DueDate); err != nil {
		return err
	}

	task, err := s.store.CreateTask(c.Request().Context(), currentUser(c), input)
	if err != nil {
		return storeError(err, "project")
	}
	return c.JSON(http.StatusCreated, envelope{Result: task})
}

func (s *Server) handleEditTask(c echo.Context) error {
	var patch model.TaskPatch
	if err := c.Bind(&patch); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return apperrors.ValidationError("title cannot be empty")
	}
	if patch.DueDate != nil {
		if err := validateDueDate(*patch.DueDate); err != nil {
			return err
		}
	}

	task, err := s.store.UpdateTask(c.Request().Context(), currentUser(c), c.Param("id"), patch)
	if err != nil {
		return storeError(err, "task")
	}
	return c.JSON(http.StatusOK, envelope{Result: task})
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	id := c.Param("id")
	if err := s.store.DeleteTask(c.Request().Context(), currentUser(c), id); err != nil {
		return storeError(err, "task")
	}
	return c.JSON(http.StatusOK, envelope{Result: map[string]string{"id": id}})
}

func validateDueDate(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if _, err := time.Parse(model.DateLayout, value); err != nil {
		return apperrors.ValidationError("dueDate must be YYYY-MM-DD")
	}
	return nil
}

// storeError maps db sentinel errors onto API errors. kind names the entity
// a not-found refers to.
func storeError(err error, kind string) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return apperrors.NotFoundError(kind + " not found")
	case errors.Is(err, db.ErrConflict):
		return apperrors.ConflictError(kind + " already exists")
	default:
		return apperrors.InternalError("internal server error", err)
	}
}
