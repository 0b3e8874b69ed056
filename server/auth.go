package server

import (
	"net/http"
	"time"

	"github.com/existflow/planner/internal/logger"
	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    int64  `json:"user_id"`
}

// handleRegister handles user registration
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "invalid request")
	}

	user, err := s.svc.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return s.fail(c, err)
	}

	return s.issueSession(c, user.ID, http.StatusCreated)
}

// handleLogin handles user login
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "invalid request")
	}

	user, err := s.svc.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return s.fail(c, err)
	}

	logger.Info("User logged in", logger.F("username", user.Username))
	return s.issueSession(c, user.ID, http.StatusOK)
}

func (s *Server) issueSession(c echo.Context, userID int64, status int) error {
	session, err := s.svc.StartSession(c.Request().Context(), userID, s.sessionTTL)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(status, authResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
		UserID:    userID,
	})
}

// handleMe returns current user info
func (s *Server) handleMe(c echo.Context) error {
	user, err := s.svc.GetUser(c.Request().Context(), currentUser(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// handleLogout revokes the bearer token used for the request
func (s *Server) handleLogout(c echo.Context) error {
	token, _ := c.Get("token").(string)
	if err := s.svc.EndSession(c.Request().Context(), token); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
