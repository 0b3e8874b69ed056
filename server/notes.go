package server

import (
	"net/http"

	"github.com/existflow/planner/internal/planner"
	"github.com/labstack/echo/v4"
)

type commentRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleListComments(c echo.Context) error {
	taskID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	comments, err := s.svc.Comments(c.Request().Context(), currentUser(c), taskID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, comments)
}

func (s *Server) handleAddComment(c echo.Context) error {
	taskID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "invalid request")
	}

	comment, err := s.svc.AddComment(c.Request().Context(), currentUser(c), taskID, req.Body)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, comment)
}

func (s *Server) handleDeleteComment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.svc.DeleteComment(c.Request().Context(), currentUser(c), id); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Reminders

func (s *Server) handleListReminders(c echo.Context) error {
	reminders, err := s.svc.Reminders(c.Request().Context(), currentUser(c), 0)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, reminders)
}

func (s *Server) handleTaskReminders(c echo.Context) error {
	taskID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	reminders, err := s.svc.Reminders(c.Request().Context(), currentUser(c), taskID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, reminders)
}

func (s *Server) handleAddReminder(c echo.Context) error {
	taskID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var in planner.ReminderInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "remind_at", "Enter a valid date/time.")
	}

	r, err := s.svc.AddReminder(c.Request().Context(), currentUser(c), taskID, in)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (s *Server) handleGetReminder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	r, err := s.svc.GetReminder(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) handleUpdateReminder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var in planner.ReminderInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "remind_at", "Enter a valid date/time.")
	}

	r, err := s.svc.UpdateReminder(c.Request().Context(), currentUser(c), id, in)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) handleDeleteReminder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.svc.DeleteReminder(c.Request().Context(), currentUser(c), id); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Events

func (s *Server) handleListEvents(c echo.Context) error {
	events, err := s.svc.Events(c.Request().Context(), currentUser(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// handleCreateEvent attaches the task's event; a second event is a 409
func (s *Server) handleCreateEvent(c echo.Context) error {
	taskID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var in planner.EventInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "start_time", "Enter a valid date/time.")
	}

	ev, err := s.svc.CreateEvent(c.Request().Context(), currentUser(c), taskID, in)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, ev)
}

func (s *Server) handleGetEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	ev, err := s.svc.GetEvent(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, ev)
}

func (s *Server) handleUpdateEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var in planner.EventInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "start_time", "Enter a valid date/time.")
	}

	ev, err := s.svc.UpdateEvent(c.Request().Context(), currentUser(c), id, in)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, ev)
}

func (s *Server) handleDeleteEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.svc.DeleteEvent(c.Request().Context(), currentUser(c), id); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
