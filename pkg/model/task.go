package model

import (
	"errors"
	"strings"
	"time"
)

// DefaultPriority is used when a task is added without an explicit priority.
const DefaultPriority = 2

var (
	ErrDueFormat      = errors.New("due date must be ISO8601 with timezone")
	ErrDueNoOffset    = errors.New("due date must include a timezone offset")
	ErrEmptyTitle     = errors.New("title must not be empty")
	ErrEstimateNotPos = errors.New("estimate must be greater than 0")
)

// Task is a row of the local task list.
type Task struct {
	ID              string
	Title           string
	DueAt           time.Time
	EstimateMinutes int
	Priority        int
	CreatedAt       time.Time
}

// Estimate returns the time estimate as a duration.
func (t *Task) Estimate() time.Duration {
	return time.Duration(t.EstimateMinutes) * time.Minute
}

// Validate checks the fields a caller fills in before the task is stored.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if t.EstimateMinutes <= 0 {
		return ErrEstimateNotPos
	}
	return nil
}

// offset-aware layouts, most specific first
var dueLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04Z07:00",
}

// naive layouts are recognised only to report the missing offset
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDue parses an ISO8601 due date that carries a UTC offset.
func ParseDue(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dueLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return time.Time{}, ErrDueNoOffset
		}
	}
	return time.Time{}, ErrDueFormat
}
