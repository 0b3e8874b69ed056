package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/existflow/planner/internal/db"
	"github.com/existflow/planner/internal/model"
	"github.com/existflow/planner/internal/planner"
)

type testClient struct {
	t     *testing.T
	h     http.Handler
	token string
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	database, err := db.Open("sqlite", filepath.Join(t.TempDir(), "planner.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	srv := New(planner.New(database), time.Hour)
	t.Cleanup(func() { srv.Close() })
	return srv.Router()
}

func (c *testClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	return rec
}

func (c *testClient) decode(rec *httptest.ResponseRecorder, want int, v any) {
	c.t.Helper()
	if rec.Code != want {
		c.t.Fatalf("status: got %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
	if v != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
			c.t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
}

func register(t *testing.T, h http.Handler, username string) *testClient {
	t.Helper()
	c := &testClient{t: t, h: h}
	var auth authResponse
	c.decode(c.do(http.MethodPost, "/api/v1/register", registerRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "heslo1234",
	}), http.StatusCreated, &auth)
	if auth.Token == "" || auth.UserID == 0 {
		t.Fatalf("register: empty auth response %+v", auth)
	}
	c.token = auth.Token
	return c
}

func TestHealth(t *testing.T) {
	c := &testClient{t: t, h: newTestServer(t)}
	var body map[string]string
	c.decode(c.do(http.MethodGet, "/health", nil), http.StatusOK, &body)
	if body["status"] != "ok" {
		t.Errorf("health: got %v", body)
	}
}

func TestAuthFlow(t *testing.T) {
	h := newTestServer(t)
	anon := &testClient{t: t, h: h}

	if rec := anon.do(http.MethodGet, "/api/v1/lists", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: got %d", rec.Code)
	}
	anon.token = "bogus"
	if rec := anon.do(http.MethodGet, "/api/v1/lists", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: got %d", rec.Code)
	}
	anon.token = ""

	c := register(t, h, "anna")

	var me model.User
	c.decode(c.do(http.MethodGet, "/api/v1/me", nil), http.StatusOK, &me)
	if me.Username != "anna" {
		t.Errorf("me: got %+v", me)
	}

	if rec := anon.do(http.MethodPost, "/api/v1/login", loginRequest{Username: "anna", Password: "nope-nope"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login: got %d", rec.Code)
	}
	var auth authResponse
	anon.decode(anon.do(http.MethodPost, "/api/v1/login", loginRequest{Username: "anna", Password: "heslo1234"}), http.StatusOK, &auth)
	if auth.UserID != me.ID {
		t.Errorf("login user: got %d, want %d", auth.UserID, me.ID)
	}

	var verr planner.ValidationError
	anon.decode(anon.do(http.MethodPost, "/api/v1/register", registerRequest{Username: "anna", Password: "heslo1234"}), http.StatusBadRequest, &verr)
	if !verr.Has("username") {
		t.Errorf("duplicate register: got %+v", verr)
	}

	c.decode(c.do(http.MethodPost, "/api/v1/logout", nil), http.StatusNoContent, nil)
	if rec := c.do(http.MethodGet, "/api/v1/me", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("after logout: got %d", rec.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	h := newTestServer(t)
	anna := register(t, h, "anna")
	tom := register(t, h, "tom")

	var home model.List
	anna.decode(anna.do(http.MethodPost, "/api/v1/lists", listRequest{Name: "Home"}), http.StatusCreated, &home)
	var tomList model.List
	tom.decode(tom.do(http.MethodPost, "/api/v1/lists", listRequest{Name: "Tom"}), http.StatusCreated, &tomList)

	var task model.Task
	anna.decode(anna.do(http.MethodPost, "/api/v1/tasks", map[string]any{
		"title":    "Buy milk",
		"list":     home.ID,
		"due_date": "2030-01-15",
		"new_tags": []string{"urgent, errands"},
	}), http.StatusCreated, &task)
	if len(task.Tags) != 2 || task.Priority != model.PriorityLow || task.DueDate.String() != "2030-01-15" {
		t.Errorf("created task: %+v", task)
	}

	// Foreign list is a field error, not a 404.
	var verr planner.ValidationError
	anna.decode(anna.do(http.MethodPost, "/api/v1/tasks", map[string]any{
		"title": "Sneaky",
		"list":  tomList.ID,
	}), http.StatusBadRequest, &verr)
	if got := verr.Fields["list"]; len(got) != 1 || got[0] != "You cannot add a task to that list." {
		t.Errorf("foreign list: got %v", verr.Fields)
	}

	path := fmt.Sprintf("/api/v1/tasks/%d", task.ID)
	if rec := tom.do(http.MethodGet, path, nil); rec.Code != http.StatusNotFound {
		t.Errorf("tom reading anna's task: got %d", rec.Code)
	}
	if rec := tom.do(http.MethodDelete, path, nil); rec.Code != http.StatusNotFound {
		t.Errorf("tom deleting anna's task: got %d", rec.Code)
	}

	var toggled map[string]any
	anna.decode(anna.do(http.MethodPost, path+"/toggle", map[string]any{"done": nil}), http.StatusOK, &toggled)
	if toggled["is_completed"] != true {
		t.Errorf("toggle: got %v", toggled)
	}

	var tasks []model.Task
	anna.decode(anna.do(http.MethodGet, "/api/v1/tasks?done=true&q=MILK", nil), http.StatusOK, &tasks)
	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Errorf("filter: got %+v", tasks)
	}
	anna.decode(anna.do(http.MethodGet, fmt.Sprintf("/api/v1/tasks?tags=%d,%d", task.Tags[0].ID, task.Tags[1].ID), nil), http.StatusOK, &tasks)
	if len(tasks) != 1 {
		t.Errorf("tag filter: got %d tasks", len(tasks))
	}
	if rec := anna.do(http.MethodGet, "/api/v1/tasks?priority=high", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad priority param: got %d", rec.Code)
	}

	var ev model.Event
	start := time.Date(2030, 1, 15, 9, 0, 0, 0, time.UTC)
	anna.decode(anna.do(http.MethodPost, path+"/event", planner.EventInput{StartTime: start, EndTime: start.Add(time.Hour)}), http.StatusCreated, &ev)
	if rec := anna.do(http.MethodPost, path+"/event", planner.EventInput{StartTime: start, EndTime: start.Add(time.Hour)}); rec.Code != http.StatusConflict {
		t.Errorf("second event: got %d", rec.Code)
	}

	anna.decode(anna.do(http.MethodPost, path+"/comments", commentRequest{Body: "on it"}), http.StatusCreated, nil)
	anna.decode(anna.do(http.MethodPost, path+"/reminders", planner.ReminderInput{RemindAt: start.Add(-time.Hour)}), http.StatusCreated, nil)

	var detail model.TaskDetail
	anna.decode(anna.do(http.MethodGet, path+"?back=/app/lists/"+fmt.Sprint(home.ID), nil), http.StatusOK, &detail)
	if detail.Event == nil || detail.Event.ID != ev.ID || len(detail.Comments) != 1 || len(detail.Reminders) != 1 {
		t.Errorf("detail: %+v", detail)
	}
	if detail.BackURL != fmt.Sprintf("/app/lists/%d", home.ID) {
		t.Errorf("back url: got %q", detail.BackURL)
	}

	anna.decode(anna.do(http.MethodDelete, fmt.Sprintf("/api/v1/lists/%d", home.ID), nil), http.StatusNoContent, nil)
	if rec := anna.do(http.MethodGet, path, nil); rec.Code != http.StatusNotFound {
		t.Errorf("task after list delete: got %d", rec.Code)
	}
}

func TestTagEndpoints(t *testing.T) {
	h := newTestServer(t)
	anna := register(t, h, "anna")
	tom := register(t, h, "tom")

	var work, home, foreign model.Tag
	anna.decode(anna.do(http.MethodPost, "/api/v1/tags", tagRequest{Name: "work"}), http.StatusCreated, &work)
	anna.decode(anna.do(http.MethodPost, "/api/v1/tags", tagRequest{Name: "home"}), http.StatusCreated, &home)
	tom.decode(tom.do(http.MethodPost, "/api/v1/tags", tagRequest{Name: "work"}), http.StatusCreated, &foreign)

	if rec := anna.do(http.MethodPost, "/api/v1/tags", tagRequest{Name: "work"}); rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate tag: got %d", rec.Code)
	}
	if rec := anna.do(http.MethodGet, fmt.Sprintf("/api/v1/tags/%d", foreign.ID), nil); rec.Code != http.StatusNotFound {
		t.Errorf("foreign tag: got %d", rec.Code)
	}

	var res map[string]int64
	anna.decode(anna.do(http.MethodPost, "/api/v1/tags/bulk-delete", bulkDeleteRequest{IDs: []int64{work.ID, foreign.ID}}), http.StatusOK, &res)
	if res["deleted"] != 1 {
		t.Errorf("bulk delete: got %v", res)
	}

	var tags []model.Tag
	anna.decode(anna.do(http.MethodGet, "/api/v1/tags", nil), http.StatusOK, &tags)
	if len(tags) != 1 || tags[0].ID != home.ID {
		t.Errorf("anna's tags: %+v", tags)
	}
	tom.decode(tom.do(http.MethodGet, "/api/v1/tags", nil), http.StatusOK, &tags)
	if len(tags) != 1 || tags[0].ID != foreign.ID {
		t.Errorf("tom's tags: %+v", tags)
	}

	if rec := anna.do(http.MethodGet, "/api/v1/tags/abc", nil); rec.Code != http.StatusNotFound {
		t.Errorf("non-numeric id: got %d", rec.Code)
	}
}
