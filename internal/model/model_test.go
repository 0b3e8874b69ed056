package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestValidPriority(t *testing.T) {
	for p := -1; p <= 5; p++ {
		want := p >= 1 && p <= 4
		if got := ValidPriority(p); got != want {
			t.Errorf("ValidPriority(%d) = %v, want %v", p, got, want)
		}
	}
}

func TestDateJSON(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"title":"x","due_date":"2030-06-15"}`), &task); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if task.DueDate == nil || task.DueDate.String() != "2030-06-15" {
		t.Fatalf("due date: got %v", task.DueDate)
	}

	out, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(out, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if raw["due_date"] != "2030-06-15" {
		t.Errorf("encoded due_date: got %v", raw["due_date"])
	}
	if _, ok := raw["OwnerID"]; ok {
		t.Errorf("owner id leaked into JSON")
	}

	if err := json.Unmarshal([]byte(`{"due_date":"15/06/2030"}`), &task); err == nil {
		t.Errorf("bad date accepted")
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2030, 6, 15, 18, 0, 0, 0, time.UTC)
	yesterday := NewDate(now.AddDate(0, 0, -1))
	today := NewDate(now)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"no due date", Task{}, false},
		{"due today", Task{DueDate: &today}, false},
		{"due yesterday", Task{DueDate: &yesterday}, true},
		{"done yesterday", Task{DueDate: &yesterday, IsCompleted: true}, false},
	}

	for _, tt := range tests {
		if got := tt.task.IsOverdue(now); got != tt.want {
			t.Errorf("%s: IsOverdue = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEventValid(t *testing.T) {
	start := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	if !(&Event{StartTime: start, EndTime: start}).Valid() {
		t.Errorf("zero-length event should be valid")
	}
	if (&Event{StartTime: start, EndTime: start.Add(-time.Second)}).Valid() {
		t.Errorf("event ending before start should be invalid")
	}
}
