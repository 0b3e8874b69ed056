package planner

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/existflow/planner/internal/db"
	"github.com/existflow/planner/internal/model"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	database, err := db.Open("sqlite", filepath.Join(t.TempDir(), "planner.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return New(database)
}

func newUser(t *testing.T, s *Service, name string) int64 {
	t.Helper()
	id, err := s.db.CreateUser(context.Background(), db.CreateUserParams{
		Username:     name,
		PasswordHash: "x",
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return id
}

func newList(t *testing.T, s *Service, user int64, name string) model.List {
	t.Helper()
	l, err := s.CreateList(context.Background(), user, name)
	if err != nil {
		t.Fatalf("CreateList(%s) failed: %v", name, err)
	}
	return l
}

func newTask(t *testing.T, s *Service, user int64, in TaskInput) model.Task {
	t.Helper()
	task, err := s.CreateTask(context.Background(), user, in)
	if err != nil {
		t.Fatalf("CreateTask(%s) failed: %v", in.Title, err)
	}
	return task
}

func tagNames(tags []model.Tag) []string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	sort.Strings(names)
	return names
}

func taskTitles(tasks []model.Task) []string {
	titles := make([]string, len(tasks))
	for i, task := range tasks {
		titles[i] = task.Title
	}
	return titles
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return verr.Fields
}

func date(s string) *model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	tom := newUser(t, s, "tom")

	list := newList(t, s, anna, "Home")
	task := newTask(t, s, anna, TaskInput{Title: "Secret", ListID: list.ID, NewTagNames: []string{"private"}})
	tag := task.Tags[0]
	rem, err := s.AddReminder(ctx, anna, task.ID, ReminderInput{RemindAt: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("AddReminder failed: %v", err)
	}
	ev, err := s.CreateEvent(ctx, anna, task.ID, EventInput{StartTime: time.Now(), EndTime: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	com, err := s.AddComment(ctx, anna, task.ID, "hello")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	tomList := newList(t, s, tom, "Tom list")

	checks := []struct {
		name string
		call func() error
	}{
		{"get list", func() error { _, err := s.GetList(ctx, tom, list.ID); return err }},
		{"rename list", func() error { _, err := s.RenameList(ctx, tom, list.ID, "x"); return err }},
		{"delete list", func() error { return s.DeleteList(ctx, tom, list.ID) }},
		{"list tasks", func() error { _, err := s.ListTasks(ctx, tom, list.ID); return err }},
		{"get task", func() error { _, err := s.GetTask(ctx, tom, task.ID); return err }},
		{"task detail", func() error { _, err := s.TaskDetail(ctx, tom, task.ID, ""); return err }},
		{"update task", func() error {
			_, err := s.UpdateTask(ctx, tom, task.ID, TaskInput{Title: "x", ListID: tomList.ID})
			return err
		}},
		{"toggle task", func() error { _, err := s.ToggleTask(ctx, tom, task.ID, nil); return err }},
		{"delete task", func() error { return s.DeleteTask(ctx, tom, task.ID) }},
		{"get tag", func() error { _, err := s.GetTag(ctx, tom, tag.ID); return err }},
		{"rename tag", func() error { _, err := s.RenameTag(ctx, tom, tag.ID, "mine"); return err }},
		{"delete tag", func() error { return s.DeleteTag(ctx, tom, tag.ID) }},
		{"get reminder", func() error { _, err := s.GetReminder(ctx, tom, rem.ID); return err }},
		{"add reminder", func() error {
			_, err := s.AddReminder(ctx, tom, task.ID, ReminderInput{RemindAt: time.Now()})
			return err
		}},
		{"delete reminder", func() error { return s.DeleteReminder(ctx, tom, rem.ID) }},
		{"get event", func() error { _, err := s.GetEvent(ctx, tom, ev.ID); return err }},
		{"update event", func() error {
			_, err := s.UpdateEvent(ctx, tom, ev.ID, EventInput{StartTime: time.Now(), EndTime: time.Now()})
			return err
		}},
		{"delete event", func() error { return s.DeleteEvent(ctx, tom, ev.ID) }},
		{"add comment", func() error { _, err := s.AddComment(ctx, tom, task.ID, "hi"); return err }},
		{"list comments", func() error { _, err := s.Comments(ctx, tom, task.ID); return err }},
		{"delete comment", func() error { return s.DeleteComment(ctx, tom, com.ID) }},
	}

	for _, c := range checks {
		if err := c.call(); !errors.Is(err, ErrNotFound) {
			t.Errorf("%s as other user: got %v, want ErrNotFound", c.name, err)
		}
	}

	// Nothing leaked into or out of tom's views.
	tasks, err := s.FilterTasks(ctx, tom, Query{})
	if err != nil {
		t.Fatalf("FilterTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("tom sees %d tasks, want 0", len(tasks))
	}
	detail, err := s.TaskDetail(ctx, anna, task.ID, "")
	if err != nil {
		t.Fatalf("TaskDetail failed: %v", err)
	}
	if detail.Title != "Secret" || len(detail.Reminders) != 1 || detail.Event == nil || len(detail.Comments) != 1 {
		t.Errorf("anna's task changed by tom's attempts: %+v", detail)
	}
}

func TestGetOrCreateTagIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	tom := newUser(t, s, "tom")

	first, err := s.GetOrCreateTag(ctx, anna, "Work")
	if err != nil {
		t.Fatalf("GetOrCreateTag failed: %v", err)
	}
	second, err := s.GetOrCreateTag(ctx, anna, " Work ")
	if err != nil {
		t.Fatalf("GetOrCreateTag failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("tag ids differ: %d vs %d", first.ID, second.ID)
	}

	// Matching is case-sensitive and per owner.
	lower, err := s.GetOrCreateTag(ctx, anna, "work")
	if err != nil {
		t.Fatalf("GetOrCreateTag failed: %v", err)
	}
	if lower.ID == first.ID {
		t.Errorf("work and Work resolved to the same tag")
	}
	other, err := s.GetOrCreateTag(ctx, tom, "Work")
	if err != nil {
		t.Fatalf("GetOrCreateTag failed: %v", err)
	}
	if other.ID == first.ID || other.OwnerID != tom {
		t.Errorf("tom got anna's tag: %+v", other)
	}

	tags, err := s.Tags(ctx, anna)
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	if got := tagNames(tags); !reflect.DeepEqual(got, []string{"Work", "work"}) {
		t.Errorf("anna's tags: got %v", got)
	}

	if _, err := s.GetOrCreateTag(ctx, anna, "   "); err == nil {
		t.Errorf("blank tag name accepted")
	}
}

func TestUpdateTaskReplacesThenAddsTags(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	list := newList(t, s, anna, "Home")

	task := newTask(t, s, anna, TaskInput{Title: "Paint", ListID: list.ID, NewTagNames: []string{"A, B"}})
	var a model.Tag
	for _, tag := range task.Tags {
		if tag.Name == "A" {
			a = tag
		}
	}

	updated, err := s.UpdateTask(ctx, anna, task.ID, TaskInput{
		Title:          "Paint",
		ListID:         list.ID,
		SelectedTagIDs: []int64{a.ID},
		NewTagNames:    []string{"C"},
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if got := tagNames(updated.Tags); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("tags after update: got %v, want [A C]", got)
	}

	// B was detached, not deleted.
	if _, err := s.db.GetTagByName(ctx, anna, "B"); err != nil {
		t.Errorf("tag B should still exist: %v", err)
	}
}

func TestTaskSaveIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	home := newList(t, s, anna, "Home")
	work := newList(t, s, anna, "Work")

	task := newTask(t, s, anna, TaskInput{Title: "Original", ListID: home.ID, Priority: 2, NewTagNames: []string{"keep"}})

	boom := errors.New("tag store unavailable")
	calls := 0
	s.resolveTag = func(ctx context.Context, q *db.Queries, ownerID int64, name string, now time.Time) (model.Tag, error) {
		calls++
		if calls == 2 {
			return model.Tag{}, boom
		}
		return q.GetOrCreateTag(ctx, ownerID, name, now)
	}

	_, err := s.UpdateTask(ctx, anna, task.ID, TaskInput{
		Title:       "Changed",
		ListID:      work.ID,
		Priority:    1,
		NewTagNames: []string{"first", "second"},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("UpdateTask: got %v, want injected failure", err)
	}

	got, err := s.GetTask(ctx, anna, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Title != "Original" || got.ListID != home.ID || got.Priority != 2 {
		t.Errorf("task fields changed after failed update: %+v", got)
	}
	if names := tagNames(got.Tags); !reflect.DeepEqual(names, []string{"keep"}) {
		t.Errorf("tags after failed update: got %v, want [keep]", names)
	}
	if _, err := s.db.GetTagByName(ctx, anna, "first"); err == nil {
		t.Errorf("tag created before the failure was not rolled back")
	}

	// A failed create leaves no task behind either.
	calls = 1
	if _, err := s.CreateTask(ctx, anna, TaskInput{Title: "Ghost", ListID: home.ID, NewTagNames: []string{"x"}}); !errors.Is(err, boom) {
		t.Fatalf("CreateTask: got %v, want injected failure", err)
	}
	tasks, err := s.FilterTasks(ctx, anna, Query{Q: "Ghost"})
	if err != nil {
		t.Fatalf("FilterTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("failed create persisted %d tasks", len(tasks))
	}
}

func TestTaskValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	tom := newUser(t, s, "tom")
	mine := newList(t, s, anna, "Mine")
	theirs := newList(t, s, tom, "Theirs")
	foreignTag, err := s.GetOrCreateTag(ctx, tom, "tom-only")
	if err != nil {
		t.Fatalf("GetOrCreateTag failed: %v", err)
	}

	_, err = s.CreateTask(ctx, anna, TaskInput{Title: "x", ListID: theirs.ID})
	if got := fieldErrors(t, err)["list"]; !reflect.DeepEqual(got, []string{"You cannot add a task to that list."}) {
		t.Errorf("create into foreign list: got %v", got)
	}

	task := newTask(t, s, anna, TaskInput{Title: "Mine", ListID: mine.ID})
	if task.Priority != model.PriorityLow {
		t.Errorf("default priority: got %d, want 4", task.Priority)
	}
	if task.Owner != "anna" || task.OwnerID != anna {
		t.Errorf("owner: got %q/%d", task.Owner, task.OwnerID)
	}

	_, err = s.UpdateTask(ctx, anna, task.ID, TaskInput{Title: "Mine", ListID: theirs.ID})
	if got := fieldErrors(t, err)["list"]; !reflect.DeepEqual(got, []string{"You cannot move the task to that list."}) {
		t.Errorf("move into foreign list: got %v", got)
	}

	_, err = s.CreateTask(ctx, anna, TaskInput{Title: "x", ListID: mine.ID, SelectedTagIDs: []int64{foreignTag.ID}})
	if got := fieldErrors(t, err)["tags"]; !reflect.DeepEqual(got, []string{"You cannot attach tags that you don't own."}) {
		t.Errorf("foreign tag: got %v", got)
	}

	_, err = s.CreateTask(ctx, anna, TaskInput{Title: " ", ListID: mine.ID, Priority: 7})
	fields := fieldErrors(t, err)
	if len(fields["title"]) == 0 || len(fields["priority"]) == 0 {
		t.Errorf("blank title and bad priority: got %v", fields)
	}

	_, err = s.CreateTask(ctx, anna, TaskInput{Title: "x", ListID: mine.ID, Collaborators: []int64{tom, 9999}})
	if len(fieldErrors(t, err)["users"]) == 0 {
		t.Errorf("unknown collaborator accepted")
	}

	withTom := newTask(t, s, anna, TaskInput{Title: "Shared", ListID: mine.ID, Collaborators: []int64{tom, tom}})
	if !reflect.DeepEqual(withTom.Collaborators, []int64{tom}) {
		t.Errorf("collaborators: got %v", withTom.Collaborators)
	}
}

func TestFilterTagsAreANDed(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	list := newList(t, s, anna, "Work")

	urgentOnly := newTask(t, s, anna, TaskInput{Title: "Urgent only", ListID: list.ID, NewTagNames: []string{"urgent"}})
	both := newTask(t, s, anna, TaskInput{Title: "Both", ListID: list.ID, NewTagNames: []string{"urgent", "important"}})

	urgent, _ := s.db.GetTagByName(ctx, anna, "urgent")
	important, _ := s.db.GetTagByName(ctx, anna, "important")

	tasks, err := s.FilterTasks(ctx, anna, Query{TagIDs: []int64{urgent.ID, important.ID}})
	if err != nil {
		t.Fatalf("FilterTasks failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != both.ID {
		t.Errorf("AND filter: got %v, want [Both]", taskTitles(tasks))
	}

	tasks, err = s.FilterTasks(ctx, anna, Query{TagIDs: []int64{urgent.ID, urgent.ID}})
	if err != nil {
		t.Fatalf("FilterTasks failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("repeated tag id: got %v, want both tasks", taskTitles(tasks))
	}

	tasks, err = s.FilterTasks(ctx, anna, Query{TagIDs: []int64{important.ID, urgent.ID}})
	if err != nil {
		t.Fatalf("FilterTasks failed: %v", err)
	}
	for _, task := range tasks {
		if task.ID == urgentOnly.ID {
			t.Errorf("task with only one of the tags matched: %v", taskTitles(tasks))
		}
	}
}

func TestFilterDimensions(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	tom := newUser(t, s, "tom")
	home := newList(t, s, anna, "Home")
	garden := newList(t, s, anna, "Garden")
	tomList := newList(t, s, tom, "Home")

	newTask(t, s, anna, TaskInput{Title: "Buy milk", ListID: home.ID, Priority: 1, NewTagNames: []string{"Errands", "shop"}})
	newTask(t, s, anna, TaskInput{Title: "Mow lawn", Description: "before the rain", ListID: garden.ID, Priority: 2, IsCompleted: true})
	newTask(t, s, anna, TaskInput{Title: "100% done", ListID: garden.ID, Priority: 3})
	newTask(t, s, tom, TaskInput{Title: "Buy milk", ListID: tomList.ID})

	yes, no := true, false
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"all", Query{}, []string{"Buy milk", "Mow lawn", "100% done"}},
		{"title case-insensitive", Query{Q: "MILK"}, []string{"Buy milk"}},
		{"description", Query{Q: "rain"}, []string{"Mow lawn"}},
		{"list name", Query{Q: "gard"}, []string{"Mow lawn", "100% done"}},
		{"tag name matches once", Query{Q: "s"}, []string{"Buy milk"}},
		{"wildcard is literal", Query{Q: "%"}, []string{"100% done"}},
		{"list", Query{ListID: home.ID}, []string{"Buy milk"}},
		{"foreign list", Query{ListID: tomList.ID}, []string{}},
		{"priority", Query{Priority: 2}, []string{"Mow lawn"}},
		{"done", Query{Done: &yes}, []string{"Mow lawn"}},
		{"open", Query{Done: &no}, []string{"Buy milk", "100% done"}},
		{"combined", Query{ListID: garden.ID, Done: &no}, []string{"100% done"}},
		{"by list", Query{Order: OrderByList}, []string{"100% done", "Mow lawn", "Buy milk"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := s.FilterTasks(ctx, anna, tt.query)
			if err != nil {
				t.Fatalf("FilterTasks failed: %v", err)
			}
			if got := taskTitles(tasks); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterFoldsUnicodeCase(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	home := newList(t, s, anna, "Domácí")
	newTask(t, s, anna, TaskInput{Title: "Čaj a Káva", ListID: home.ID, NewTagNames: []string{"Žluté"}})
	newTask(t, s, anna, TaskInput{Title: "Other", ListID: newList(t, s, anna, "Work").ID})

	for _, q := range []string{"Čaj", "čaj", "ČAJ", "káva", "KÁVA", "DOMÁCÍ", "žluté"} {
		tasks, err := s.FilterTasks(ctx, anna, Query{Q: q})
		if err != nil {
			t.Fatalf("FilterTasks(%q) failed: %v", q, err)
		}
		if got := taskTitles(tasks); !reflect.DeepEqual(got, []string{"Čaj a Káva"}) {
			t.Errorf("FilterTasks(%q): got %v, want [Čaj a Káva]", q, got)
		}
	}
}

func TestDefaultOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	list := newList(t, s, anna, "List")

	newTask(t, s, anna, TaskInput{Title: "P2 no date", ListID: list.ID, Priority: 2})
	newTask(t, s, anna, TaskInput{Title: "P1 early", ListID: list.ID, Priority: 1, DueDate: date("2030-01-01")})
	newTask(t, s, anna, TaskInput{Title: "P2 dated", ListID: list.ID, Priority: 2, DueDate: date("2030-02-01")})
	newTask(t, s, anna, TaskInput{Title: "B same", ListID: list.ID, Priority: 3, DueDate: date("2030-03-01")})
	newTask(t, s, anna, TaskInput{Title: "A same", ListID: list.ID, Priority: 3, DueDate: date("2030-03-01")})

	tasks, err := s.FilterTasks(ctx, anna, Query{})
	if err != nil {
		t.Fatalf("FilterTasks failed: %v", err)
	}
	want := []string{"P1 early", "P2 dated", "P2 no date", "A same", "B same"}
	if got := taskTitles(tasks); !reflect.DeepEqual(got, want) {
		t.Errorf("order: got %v, want %v", got, want)
	}
}

func TestEventExclusivity(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	list := newList(t, s, anna, "List")
	task := newTask(t, s, anna, TaskInput{Title: "Meeting", ListID: list.ID})

	start := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)
	_, err := s.CreateEvent(ctx, anna, task.ID, EventInput{StartTime: start, EndTime: start.Add(-time.Minute)})
	if got := fieldErrors(t, err)["end_time"]; len(got) != 1 {
		t.Errorf("end before start: got %v", got)
	}

	first, err := s.CreateEvent(ctx, anna, task.ID, EventInput{StartTime: start, EndTime: start})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	_, err = s.CreateEvent(ctx, anna, task.ID, EventInput{StartTime: start.Add(time.Hour), EndTime: start.Add(2 * time.Hour)})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second event: got %v, want ErrConflict", err)
	}

	got, err := s.GetEvent(ctx, anna, first.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if !got.StartTime.Equal(start) || !got.EndTime.Equal(start) {
		t.Errorf("existing event changed: %+v", got)
	}

	_, err = s.UpdateEvent(ctx, anna, first.ID, EventInput{StartTime: start, EndTime: start.Add(-time.Hour)})
	if len(fieldErrors(t, err)["end_time"]) == 0 {
		t.Errorf("update with end before start accepted")
	}
	moved, err := s.UpdateEvent(ctx, anna, first.ID, EventInput{StartTime: start.Add(time.Hour), EndTime: start.Add(2 * time.Hour)})
	if err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}
	if !moved.StartTime.Equal(start.Add(time.Hour)) {
		t.Errorf("moved start: got %v", moved.StartTime)
	}
}

func TestCreateTaskWithNewTagsScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	home := newList(t, s, anna, "Home")

	task := newTask(t, s, anna, TaskInput{Title: "Buy milk", ListID: home.ID, NewTagNames: []string{"urgent, errands"}})
	if got := tagNames(task.Tags); !reflect.DeepEqual(got, []string{"errands", "urgent"}) {
		t.Errorf("task tags: got %v", got)
	}
	for _, tag := range task.Tags {
		if tag.OwnerID != anna {
			t.Errorf("tag %s owned by %d, want %d", tag.Name, tag.OwnerID, anna)
		}
	}

	selected := []int64{task.Tags[0].ID, task.Tags[1].ID}
	edited, err := s.UpdateTask(ctx, anna, task.ID, TaskInput{
		Title:          "Buy milk",
		ListID:         home.ID,
		SelectedTagIDs: selected,
		NewTagNames:    []string{"urgent, errands"},
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if got := tagNames(edited.Tags); !reflect.DeepEqual(got, []string{"errands", "urgent"}) {
		t.Errorf("task tags after edit: got %v", got)
	}

	tags, err := s.Tags(ctx, anna)
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("anna has %d tags, want 2", len(tags))
	}
	tasks, err := s.FilterTasks(ctx, anna, Query{})
	if err != nil {
		t.Fatalf("FilterTasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("anna has %d tasks, want 1", len(tasks))
	}
}

func TestBulkDeleteTags(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	tom := newUser(t, s, "tom")
	list := newList(t, s, anna, "List")

	task := newTask(t, s, anna, TaskInput{Title: "Tagged", ListID: list.ID, NewTagNames: []string{"a", "b", "c"}})
	foreign, _ := s.GetOrCreateTag(ctx, tom, "a")

	ids := []int64{task.Tags[0].ID, task.Tags[1].ID, foreign.ID, 424242}
	n, err := s.BulkDeleteTags(ctx, anna, ids)
	if err != nil {
		t.Fatalf("BulkDeleteTags failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted: got %d, want 2", n)
	}

	if _, err := s.GetTag(ctx, tom, foreign.ID); err != nil {
		t.Errorf("tom's tag was deleted: %v", err)
	}
	got, err := s.GetTask(ctx, anna, task.ID)
	if err != nil {
		t.Fatalf("task should survive tag deletion: %v", err)
	}
	if names := tagNames(got.Tags); !reflect.DeepEqual(names, []string{"c"}) {
		t.Errorf("remaining tags: got %v, want [c]", names)
	}
}

func TestTagCreateAndRenameRejectDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")

	work, err := s.CreateTag(ctx, anna, "work")
	if err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}
	home, err := s.CreateTag(ctx, anna, "home")
	if err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}

	_, err = s.CreateTag(ctx, anna, "work")
	if len(fieldErrors(t, err)["name"]) == 0 {
		t.Errorf("duplicate create accepted")
	}
	_, err = s.RenameTag(ctx, anna, home.ID, "work")
	if len(fieldErrors(t, err)["name"]) == 0 {
		t.Errorf("rename onto existing name accepted")
	}
	same, err := s.RenameTag(ctx, anna, work.ID, "work")
	if err != nil || same.Name != "work" {
		t.Errorf("rename to own name: got %+v, %v", same, err)
	}
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	list := newList(t, s, anna, "Doomed")
	task := newTask(t, s, anna, TaskInput{Title: "Gone", ListID: list.ID, NewTagNames: []string{"stays"}})

	if _, err := s.AddReminder(ctx, anna, task.ID, ReminderInput{RemindAt: time.Now()}); err != nil {
		t.Fatalf("AddReminder failed: %v", err)
	}
	if _, err := s.AddComment(ctx, anna, task.ID, "bye"); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	if err := s.DeleteList(ctx, anna, list.ID); err != nil {
		t.Fatalf("DeleteList failed: %v", err)
	}
	if _, err := s.GetTask(ctx, anna, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("task after list delete: got %v, want ErrNotFound", err)
	}
	reminders, err := s.Reminders(ctx, anna, 0)
	if err != nil {
		t.Fatalf("Reminders failed: %v", err)
	}
	if len(reminders) != 0 {
		t.Errorf("reminders survived cascade: %d", len(reminders))
	}
	tags, err := s.Tags(ctx, anna)
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	if len(tags) != 1 {
		t.Errorf("tags should outlive tasks: got %d", len(tags))
	}
}

func TestToggleTask(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	list := newList(t, s, anna, "List")
	task := newTask(t, s, anna, TaskInput{Title: "Flip", ListID: list.ID})

	done, err := s.ToggleTask(ctx, anna, task.ID, nil)
	if err != nil || !done {
		t.Fatalf("flip: got %v, %v", done, err)
	}
	done, err = s.ToggleTask(ctx, anna, task.ID, nil)
	if err != nil || done {
		t.Fatalf("flip back: got %v, %v", done, err)
	}
	yes := true
	for i := 0; i < 2; i++ {
		if done, err = s.ToggleTask(ctx, anna, task.ID, &yes); err != nil || !done {
			t.Fatalf("explicit set: got %v, %v", done, err)
		}
	}
}

func TestTaskTimestamps(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	list := newList(t, s, anna, "List")

	created := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return created }
	task := newTask(t, s, anna, TaskInput{Title: "Stamp", ListID: list.ID})
	if !task.CreatedAt.Equal(created) || !task.UpdatedAt.Equal(created) {
		t.Fatalf("new task: created %v updated %v, want %v", task.CreatedAt, task.UpdatedAt, created)
	}

	toggled := created.Add(time.Hour)
	s.now = func() time.Time { return toggled }
	if _, err := s.ToggleTask(ctx, anna, task.ID, nil); err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	got, err := s.GetTask(ctx, anna, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(toggled) {
		t.Errorf("after toggle: created %v updated %v, want %v and %v", got.CreatedAt, got.UpdatedAt, created, toggled)
	}
}

func TestRemindersAndComments(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")
	list := newList(t, s, anna, "List")
	task := newTask(t, s, anna, TaskInput{Title: "Call mom", ListID: list.ID})

	later := time.Date(2030, 1, 2, 9, 0, 0, 0, time.UTC)
	sooner := later.Add(-24 * time.Hour)
	if _, err := s.AddReminder(ctx, anna, task.ID, ReminderInput{RemindAt: later, Note: "second"}); err != nil {
		t.Fatalf("AddReminder failed: %v", err)
	}
	r, err := s.AddReminder(ctx, anna, task.ID, ReminderInput{RemindAt: sooner, Note: "first"})
	if err != nil {
		t.Fatalf("AddReminder failed: %v", err)
	}
	if r.OwnerID != anna {
		t.Errorf("reminder owner: got %d", r.OwnerID)
	}
	if _, err := s.AddReminder(ctx, anna, task.ID, ReminderInput{}); len(fieldErrors(t, err)["remind_at"]) == 0 {
		t.Errorf("missing remind_at accepted")
	}

	reminders, err := s.Reminders(ctx, anna, task.ID)
	if err != nil {
		t.Fatalf("Reminders failed: %v", err)
	}
	if len(reminders) != 2 || reminders[0].Note != "first" {
		t.Errorf("reminder order: got %+v", reminders)
	}

	updated, err := s.UpdateReminder(ctx, anna, r.ID, ReminderInput{RemindAt: later.Add(time.Hour), Note: "moved"})
	if err != nil {
		t.Fatalf("UpdateReminder failed: %v", err)
	}
	if updated.Note != "moved" || !updated.RemindAt.Equal(later.Add(time.Hour)) {
		t.Errorf("updated reminder: %+v", updated)
	}

	if _, err := s.AddComment(ctx, anna, task.ID, "  "); len(fieldErrors(t, err)["body"]) == 0 {
		t.Errorf("blank comment accepted")
	}
	older, err := s.AddComment(ctx, anna, task.ID, "older")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if _, err := s.AddComment(ctx, anna, task.ID, "newer"); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	comments, err := s.Comments(ctx, anna, task.ID)
	if err != nil {
		t.Fatalf("Comments failed: %v", err)
	}
	if len(comments) != 2 || comments[0].Body != "newer" || comments[0].Author != "anna" {
		t.Errorf("comments newest first: got %+v", comments)
	}
	if err := s.DeleteComment(ctx, anna, older.ID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	if err := s.DeleteComment(ctx, anna, older.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestListsWithCounts(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	anna := newUser(t, s, "anna")

	b := newList(t, s, anna, "B")
	newList(t, s, anna, "A")
	dup := newList(t, s, anna, "B")
	newTask(t, s, anna, TaskInput{Title: "one", ListID: b.ID})

	lists, err := s.Lists(ctx, anna)
	if err != nil {
		t.Fatalf("Lists failed: %v", err)
	}
	if len(lists) != 3 || lists[0].Name != "A" || lists[1].ID != b.ID || lists[1].TaskCount != 1 || lists[2].ID != dup.ID {
		t.Errorf("lists: got %+v", lists)
	}

	if _, err := s.CreateList(ctx, anna, ""); len(fieldErrors(t, err)["name"]) == 0 {
		t.Errorf("blank list name accepted")
	}
	renamed, err := s.RenameList(ctx, anna, b.ID, "Bee")
	if err != nil || renamed.Name != "Bee" {
		t.Errorf("rename: got %+v, %v", renamed, err)
	}
}

func TestParseTagNames(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{""}, nil},
		{[]string{"urgent, errands"}, []string{"urgent", "errands"}},
		{[]string{" a ,, b", "c", "a"}, []string{"a", "b", "c"}},
		{[]string{"Work", "work"}, []string{"Work", "work"}},
	}

	for _, tt := range tests {
		if got := ParseTagNames(tt.in...); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseTagNames(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBackLink(t *testing.T) {
	tests := []struct {
		ref, want string
	}{
		{"", ""},
		{"http://host/app/tasks/", "http://host/app/tasks"},
		{"/app/lists/12", "/app/lists/12"},
		{"/app/lists/12/edit", ""},
		{"/app/lists/12/delete", ""},
		{"https://evil.example/login", ""},
	}

	for _, tt := range tests {
		if got := BackLink(tt.ref); got != tt.want {
			t.Errorf("BackLink(%q): got %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestAccountsAndSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	user, err := s.Register(ctx, "anna", "anna@example.com", "heslo1234")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := s.Register(ctx, "anna", "", "heslo1234"); len(fieldErrors(t, err)["username"]) == 0 {
		t.Errorf("duplicate username accepted")
	}
	if _, err := s.Register(ctx, "bob", "", "short"); len(fieldErrors(t, err)["password"]) == 0 {
		t.Errorf("short password accepted")
	}

	if _, err := s.Authenticate(ctx, "anna", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := s.Authenticate(ctx, "nobody", "heslo1234"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v", err)
	}
	if got, err := s.Authenticate(ctx, "anna", "heslo1234"); err != nil || got.ID != user.ID {
		t.Fatalf("Authenticate: got %+v, %v", got, err)
	}

	session, err := s.StartSession(ctx, user.ID, time.Hour)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if id, err := s.SessionUser(ctx, session.Token); err != nil || id != user.ID {
		t.Errorf("SessionUser: got %d, %v", id, err)
	}

	expired, err := s.StartSession(ctx, user.ID, -time.Minute)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if _, err := s.SessionUser(ctx, expired.Token); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expired session: got %v", err)
	}

	if err := s.EndSession(ctx, session.Token); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if _, err := s.SessionUser(ctx, session.Token); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("ended session: got %v", err)
	}
}

func TestSeedDemoIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	user, created, err := s.SeedDemo(ctx)
	if err != nil || !created {
		t.Fatalf("SeedDemo: created=%v err=%v", created, err)
	}
	again, created, err := s.SeedDemo(ctx)
	if err != nil || created || again.ID != user.ID {
		t.Fatalf("second SeedDemo: %+v created=%v err=%v", again, created, err)
	}

	tasks, err := s.FilterTasks(ctx, user.ID, Query{})
	if err != nil {
		t.Fatalf("FilterTasks failed: %v", err)
	}
	if len(tasks) != len(demoTasks) {
		t.Errorf("demo tasks: got %d, want %d", len(tasks), len(demoTasks))
	}
	tags, err := s.Tags(ctx, user.ID)
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	if len(tags) != 5 {
		t.Errorf("demo tags: got %d, want 5", len(tags))
	}
}

func TestSeedDemoCompletesPartialSeed(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	user, err := s.Register(ctx, DemoUsername, "", DemoPassword)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	personal := newList(t, s, user.ID, "Personal")
	newTask(t, s, user.ID, TaskInput{Title: "Gym workout", ListID: personal.ID, NewTagNames: []string{"in progress"}})

	again, created, err := s.SeedDemo(ctx)
	if err != nil || !created || again.ID != user.ID {
		t.Fatalf("SeedDemo after partial seed: %+v created=%v err=%v", again, created, err)
	}

	lists, err := s.Lists(ctx, user.ID)
	if err != nil {
		t.Fatalf("Lists failed: %v", err)
	}
	if len(lists) != len(demoLists) {
		t.Errorf("demo lists: got %d, want %d", len(lists), len(demoLists))
	}
	tasks, err := s.FilterTasks(ctx, user.ID, Query{})
	if err != nil {
		t.Fatalf("FilterTasks failed: %v", err)
	}
	if len(tasks) != len(demoTasks) {
		t.Errorf("demo tasks: got %v", taskTitles(tasks))
	}

	var first model.Task
	for _, task := range tasks {
		if task.Title == demoTasks[0].title {
			first = task
		}
	}
	detail, err := s.TaskDetail(ctx, user.ID, first.ID, "")
	if err != nil {
		t.Fatalf("TaskDetail failed: %v", err)
	}
	if len(detail.Comments) != 1 || len(detail.Reminders) != 1 || detail.Event == nil {
		t.Errorf("demo notes: %d comments, %d reminders, event %v", len(detail.Comments), len(detail.Reminders), detail.Event)
	}

	if _, created, err := s.SeedDemo(ctx); err != nil || created {
		t.Errorf("complete seed rerun: created=%v err=%v", created, err)
	}
}
