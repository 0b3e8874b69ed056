package server

import (
	"context"
	"net/http"
	"time"

	"github.com/existflow/planner/internal/logger"
	"github.com/existflow/planner/internal/planner"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server is the planner JSON API
type Server struct {
	svc        *planner.Service
	echo       *echo.Echo
	sessionTTL time.Duration
}

// New creates a server over svc. Bearer tokens issued on login live for
// sessionTTL.
func New(svc *planner.Service, sessionTTL time.Duration) *Server {
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}
	s := &Server{
		svc:        svc,
		sessionTTL: sessionTTL,
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// API v1
	api := e.Group("/api/v1")

	// Auth endpoints (public)
	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.GET("/me", s.handleMe)
	protected.POST("/logout", s.handleLogout)

	protected.GET("/lists", s.handleListLists)
	protected.POST("/lists", s.handleCreateList)
	protected.GET("/lists/:id", s.handleGetList)
	protected.PUT("/lists/:id", s.handleRenameList)
	protected.DELETE("/lists/:id", s.handleDeleteList)
	protected.GET("/lists/:id/tasks", s.handleListTasks)

	protected.GET("/tasks", s.handleFilterTasks)
	protected.POST("/tasks", s.handleCreateTask)
	protected.GET("/tasks/:id", s.handleTaskDetail)
	protected.PUT("/tasks/:id", s.handleUpdateTask)
	protected.DELETE("/tasks/:id", s.handleDeleteTask)
	protected.POST("/tasks/:id/toggle", s.handleToggleTask)
	protected.GET("/tasks/:id/comments", s.handleListComments)
	protected.POST("/tasks/:id/comments", s.handleAddComment)
	protected.GET("/tasks/:id/reminders", s.handleTaskReminders)
	protected.POST("/tasks/:id/reminders", s.handleAddReminder)
	protected.POST("/tasks/:id/event", s.handleCreateEvent)

	protected.GET("/tags", s.handleListTags)
	protected.POST("/tags", s.handleCreateTag)
	protected.POST("/tags/bulk-delete", s.handleBulkDeleteTags)
	protected.GET("/tags/:id", s.handleGetTag)
	protected.PUT("/tags/:id", s.handleRenameTag)
	protected.DELETE("/tags/:id", s.handleDeleteTag)

	protected.GET("/reminders", s.handleListReminders)
	protected.GET("/reminders/:id", s.handleGetReminder)
	protected.PUT("/reminders/:id", s.handleUpdateReminder)
	protected.DELETE("/reminders/:id", s.handleDeleteReminder)

	protected.GET("/events", s.handleListEvents)
	protected.GET("/events/:id", s.handleGetEvent)
	protected.PUT("/events/:id", s.handleUpdateEvent)
	protected.DELETE("/events/:id", s.handleDeleteEvent)

	protected.DELETE("/comments/:id", s.handleDeleteComment)

	s.echo = e
}

// Close closes the database connection
func (s *Server) Close() error {
	return s.svc.DB().Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	logger.Info("Server starting", logger.F("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
