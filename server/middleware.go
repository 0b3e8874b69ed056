package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/planner/internal/logger"
	"github.com/existflow/planner/internal/planner"
	"github.com/labstack/echo/v4"
)

const userIDKey = "user_id"

// requestLogger logs every request and its response
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()
		rid := c.Response().Header().Get(echo.HeaderXRequestID)

		logger.Debug("HTTP Request",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("remote", req.RemoteAddr),
			logger.F("request_id", rid))

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		res := c.Response()
		logger.Info("HTTP Response",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()),
			logger.F("request_id", rid))

		return nil
	}
}

// authMiddleware checks for a valid bearer session token
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authorization required"})
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
		}

		userID, err := s.svc.SessionUser(c.Request().Context(), token)
		if err != nil {
			if errors.Is(err, planner.ErrInvalidCredentials) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}
			return s.fail(c, err)
		}

		c.Set(userIDKey, userID)
		c.Set("token", token)
		return next(c)
	}
}

func currentUser(c echo.Context) int64 {
	id, _ := c.Get(userIDKey).(int64)
	return id
}

// pathID parses the :id route parameter. Anything that is not a positive
// integer cannot name a row and is reported as not found.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, planner.ErrNotFound
	}
	return id, nil
}

// fail maps a service error onto an HTTP response
func (s *Server) fail(c echo.Context, err error) error {
	var verr *planner.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, verr)
	case errors.Is(err, planner.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, planner.ErrConflict):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, planner.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	logger.Error("Request failed",
		logger.F("method", c.Request().Method),
		logger.F("uri", c.Request().RequestURI),
		logger.F("error", err.Error()))
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

// badRequest reports a malformed body or query as a field error
func badRequest(c echo.Context, field, msg string) error {
	v := &planner.ValidationError{}
	v.Add(field, msg)
	return c.JSON(http.StatusBadRequest, v)
}
