package planner

import (
	"context"
	"errors"
	"time"

	"github.com/existflow/planner/internal/logger"
	"github.com/existflow/planner/internal/model"
)

const (
	DemoUsername = "demo"
	DemoPassword = "demo1234"
)

type demoTask struct {
	title, description, list string
	priority, dueIn         int
	done                    bool
	tags                    []string
}

var demoTasks = []demoTask{
	{"Finish quarterly report", "Complete the Q4 financial report and send to management", "Work Projects", 1, 2, false, []string{"urgent", "important"}},
	{"Team meeting preparation", "Prepare slides for Monday team meeting", "Work Projects", 2, 5, false, []string{"important"}},
	{"Code review for PR #234", "Review pull request for the new feature implementation", "Work Projects", 2, 1, true, []string{"review"}},
	{"Book dentist appointment", "Call Dr. Smith office for annual checkup", "Personal", 3, 7, false, nil},
	{"Gym workout", "Upper body workout - chest and arms", "Personal", 3, 0, false, []string{"in progress"}},
	{"Pay electricity bill", "Monthly utility payment", "Personal", 1, -1, true, []string{"urgent"}},
	{"Buy groceries", "Milk, bread, eggs, vegetables, fruits", "Shopping", 2, 0, false, []string{"important"}},
	{"Birthday gift for Sarah", "Look for something special - maybe a book or jewelry", "Shopping", 2, 10, false, nil},
	{"Read \"Clean Code\"", "Chapter 5-7 on functions and error handling", "Learning", 4, 21, false, []string{"waiting"}},
}

var demoLists = []string{"Work Projects", "Personal", "Shopping", "Learning"}

// SeedDemo creates the demo account with sample lists, tags, tasks, a
// comment, a reminder and an event. Each piece is created only when it is
// missing, so a run that failed partway is completed by the next one. It
// reports whether anything was created.
func (s *Service) SeedDemo(ctx context.Context) (model.User, bool, error) {
	created := false

	user, err := s.UserByName(ctx, DemoUsername)
	if errors.Is(err, ErrNotFound) {
		user, err = s.Register(ctx, DemoUsername, "demo@example.com", DemoPassword)
		created = err == nil
	}
	if err != nil {
		return model.User{}, false, err
	}

	existing, err := s.Lists(ctx, user.ID)
	if err != nil {
		return model.User{}, false, err
	}
	lists := make(map[string]int64, len(demoLists))
	for _, l := range existing {
		lists[l.Name] = l.ID
	}
	for _, name := range demoLists {
		if _, ok := lists[name]; ok {
			continue
		}
		l, err := s.CreateList(ctx, user.ID, name)
		if err != nil {
			return model.User{}, false, err
		}
		lists[name] = l.ID
		created = true
	}

	tasks, err := s.FilterTasks(ctx, user.ID, Query{})
	if err != nil {
		return model.User{}, false, err
	}
	byTitle := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		byTitle[t.Title] = t
	}

	today := model.NewDate(s.now())
	for _, dt := range demoTasks {
		if _, ok := byTitle[dt.title]; ok {
			continue
		}
		due := model.Date{Time: today.AddDate(0, 0, dt.dueIn)}
		t, err := s.CreateTask(ctx, user.ID, TaskInput{
			Title:       dt.title,
			Description: dt.description,
			DueDate:     &due,
			IsCompleted: dt.done,
			Priority:    dt.priority,
			ListID:      lists[dt.list],
			NewTagNames: dt.tags,
		})
		if err != nil {
			return model.User{}, false, err
		}
		byTitle[t.Title] = t
		created = true
	}

	first := byTitle[demoTasks[0].title]
	ok, err := s.seedDemoNotes(ctx, user.ID, first.ID)
	if err != nil {
		return model.User{}, false, err
	}
	created = created || ok

	if created {
		logger.Info("Demo data loaded", logger.F("user", user.ID), logger.F("tasks", len(demoTasks)))
	}
	return user, created, nil
}

// seedDemoNotes adds the demo comment, reminder and event to a task that
// does not have them yet
func (s *Service) seedDemoNotes(ctx context.Context, userID, taskID int64) (bool, error) {
	created := false

	comments, err := s.Comments(ctx, userID, taskID)
	if err != nil {
		return false, err
	}
	if len(comments) == 0 {
		if _, err := s.AddComment(ctx, userID, taskID, "Draft is ready, waiting for the final numbers."); err != nil {
			return false, err
		}
		created = true
	}

	remindAt := s.now().Add(24 * time.Hour).Truncate(time.Minute)
	reminders, err := s.Reminders(ctx, userID, taskID)
	if err != nil {
		return false, err
	}
	if len(reminders) == 0 {
		if _, err := s.AddReminder(ctx, userID, taskID, ReminderInput{RemindAt: remindAt, Note: "Send to management"}); err != nil {
			return false, err
		}
		created = true
	}

	start := remindAt.Add(time.Hour)
	_, err = s.CreateEvent(ctx, userID, taskID, EventInput{StartTime: start, EndTime: start.Add(time.Hour)})
	switch {
	case err == nil:
		created = true
	case !errors.Is(err, ErrConflict):
		return false, err
	}
	return created, nil
}
