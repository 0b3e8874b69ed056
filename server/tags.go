package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type tagRequest struct {
	Name string `json:"name"`
}

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

func (s *Server) handleListTags(c echo.Context) error {
	tags, err := s.svc.Tags(c.Request().Context(), currentUser(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, tags)
}

func (s *Server) handleCreateTag(c echo.Context) error {
	var req tagRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "invalid request")
	}

	tag, err := s.svc.CreateTag(c.Request().Context(), currentUser(c), req.Name)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, tag)
}

func (s *Server) handleGetTag(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	tag, err := s.svc.GetTag(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, tag)
}

func (s *Server) handleRenameTag(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req tagRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "invalid request")
	}

	tag, err := s.svc.RenameTag(c.Request().Context(), currentUser(c), id, req.Name)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, tag)
}

func (s *Server) handleDeleteTag(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.svc.DeleteTag(c.Request().Context(), currentUser(c), id); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// handleBulkDeleteTags deletes the caller's tags among ids; foreign and
// unknown ids are skipped
func (s *Server) handleBulkDeleteTags(c echo.Context) error {
	var req bulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "ids", "Enter a list of values.")
	}

	n, err := s.svc.BulkDeleteTags(c.Request().Context(), currentUser(c), req.IDs)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"deleted": n})
}
