package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type listRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListLists(c echo.Context) error {
	lists, err := s.svc.Lists(c.Request().Context(), currentUser(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, lists)
}

func (s *Server) handleCreateList(c echo.Context) error {
	var req listRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "invalid request")
	}

	l, err := s.svc.CreateList(c.Request().Context(), currentUser(c), req.Name)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (s *Server) handleGetList(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	l, err := s.svc.GetList(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (s *Server) handleRenameList(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req listRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "invalid request")
	}

	l, err := s.svc.RenameList(c.Request().Context(), currentUser(c), id, req.Name)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (s *Server) handleDeleteList(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.svc.DeleteList(c.Request().Context(), currentUser(c), id); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// handleListTasks returns the tasks of one list in default order
func (s *Server) handleListTasks(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	tasks, err := s.svc.ListTasks(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}
