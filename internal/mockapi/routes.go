package mockapi

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	// Auth routes (rate limited, no bearer token)
	limiter := s.authRateLimiter()
	s.echo.POST("/api/user/log_in", s.handleLogin, s.latency, limiter)
	s.echo.POST("/api/user/register", s.handleRegister, s.latency, limiter)
	s.echo.POST("/user/register", s.handleRegister, s.latency, limiter)

	project := s.echo.Group("/api/project", s.latency, s.requireAuth)
	project.POST("/get-projects", s.handleListProjects)
	project.POST("/create-project", s.handleCreateProject)
	project.POST("/edit-project/:id", s.handleEditProject)
	project.POST("/change-status-project/:id", s.handleChangeProjectStatus)

	task := s.echo.Group("/api/task", s.latency, s.requireAuth)
	task.POST("/get-user-task/:projectId", s.handleListTasks)
	task.POST("/create-task", s.handleCreateTask)
	task.POST("/edit-task/:id", s.handleEditTask)
	task.POST("/delete-task/:id", s.handleDeleteTask)
}
