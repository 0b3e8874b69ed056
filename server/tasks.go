package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/existflow/planner/internal/planner"
	"github.com/labstack/echo/v4"
)

// parseQuery reads the task filter from the query string:
// q, list, priority, done (true/false), tags (repeated or comma separated)
// and order (default or list).
func parseQuery(c echo.Context) (planner.Query, error) {
	var q planner.Query
	verr := &planner.ValidationError{}
	q.Q = strings.TrimSpace(c.QueryParam("q"))

	if v := c.QueryParam("list"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			verr.Add("list", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", v))
		}
		q.ListID = id
	}
	if v := c.QueryParam("priority"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			verr.Add("priority", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", v))
		}
		q.Priority = p
	}
	if v := c.QueryParam("done"); v != "" {
		done, err := strconv.ParseBool(v)
		if err != nil {
			verr.Add("done", "Enter true or false.")
		}
		q.Done = &done
	}
	for _, raw := range c.QueryParams()["tags"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				verr.Add("tags", fmt.Sprintf("%q is not a valid value.", part))
				continue
			}
			q.TagIDs = append(q.TagIDs, id)
		}
	}
	switch v := c.QueryParam("order"); v {
	case "", "default":
	case "list":
		q.Order = planner.OrderByList
	default:
		verr.Add("order", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", v))
	}

	if len(verr.Fields) > 0 {
		return q, verr
	}
	return q, nil
}

func (s *Server) handleFilterTasks(c echo.Context) error {
	q, err := parseQuery(c)
	if err != nil {
		return s.fail(c, err)
	}

	tasks, err := s.svc.FilterTasks(c.Request().Context(), currentUser(c), q)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var in planner.TaskInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "body", "invalid request")
	}

	t, err := s.svc.CreateTask(c.Request().Context(), currentUser(c), in)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// handleTaskDetail returns a task with reminders, event and comments. The
// back link comes from ?back= or, failing that, the Referer header.
func (s *Server) handleTaskDetail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	back := c.QueryParam("back")
	if back == "" {
		back = c.Request().Referer()
	}

	detail, err := s.svc.TaskDetail(c.Request().Context(), currentUser(c), id, back)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var in planner.TaskInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "body", "invalid request")
	}

	t, err := s.svc.UpdateTask(c.Request().Context(), currentUser(c), id, in)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.svc.DeleteTask(c.Request().Context(), currentUser(c), id); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type toggleRequest struct {
	Done *bool `json:"done"`
}

// handleToggleTask sets the completion flag, or flips it when done is
// absent or null
func (s *Server) handleToggleTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req toggleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "done", "Enter true or false.")
	}

	done, err := s.svc.ToggleTask(c.Request().Context(), currentUser(c), id, req.Done)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"id": id, "is_completed": done})
}
