package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/reminder"
	"github.com/thinkeasyacademy/Dayplanner/internal/repo"
	"github.com/thinkeasyacademy/Dayplanner/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrEmptyTitle      = errors.New("title is required")
	ErrInvalidTime     = errors.New("time must be HH:MM")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
	ErrInvalidReminder = errors.New("reminder_minutes must not be negative")
	ErrInvalidType     = errors.New("type must be task or note")
	ErrInvalidProject  = errors.New("project not found")
	ErrInvalidFilter   = errors.New("filter must be all, todo, upcoming, unplanned or notes")
)

// ClearReminder in TaskPatch.ReminderMinutes removes the reminder.
const ClearReminder = -1

// TaskCache is the read-through cache of task lists. See cache.TaskCache.
type TaskCache interface {
	GetList(ctx context.Context, userID int64) ([]dom.Task, error)
	SetList(ctx context.Context, userID int64, list []dom.Task) error
	GetSearch(ctx context.Context, userID int64, q string) ([]dom.Task, error)
	SetSearch(ctx context.Context, userID int64, q string, list []dom.Task) error
	InvalidateAll(ctx context.Context, userID int64) error
}

// ChangePublisher announces that a user's tasks changed.
type ChangePublisher interface {
	PublishChanged(ctx context.Context, userID int64) error
}

// TaskFields are the user-editable fields of a new task.
type TaskFields struct {
	ProjectID       *string
	Type            dom.TaskType
	Title           string
	Description     string
	Details         string
	IsBigNote       bool
	Date            *string
	Time            string
	ReminderMinutes *int
}

// TaskPatch changes the non-nil fields. An empty Date unplans the task,
// an empty ProjectID unassigns it and ClearReminder drops the reminder.
type TaskPatch struct {
	ProjectID       *string
	Type            *dom.TaskType
	Title           *string
	Description     *string
	Details         *string
	IsBigNote       *bool
	Date            *string
	Time            *string
	ReminderMinutes *int
	Completed       *bool
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterTodo      Filter = "todo"
	FilterUpcoming  Filter = "upcoming"
	FilterUnplanned Filter = "unplanned"
	FilterNotes     Filter = "notes"
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterTodo, FilterUpcoming, FilterUnplanned, FilterNotes:
		return f, nil
	}
	return "", ErrInvalidFilter
}

// Summary holds the timeline counters.
type Summary struct {
	Date      string
	Todo      int
	Upcoming  int
	Unplanned int
	Notes     int
	Completed int
}

type TaskService struct {
	repo    repo.TaskRepo
	cache   TaskCache
	changes ChangePublisher
	clock   reminder.Clock
	sf      singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled;
// if changes is nil, mutations are not published. clock decides "today"
// and defaults to the local system clock.
func NewTaskService(r repo.TaskRepo, c TaskCache, changes ChangePublisher, clock reminder.Clock) *TaskService {
	if clock == nil {
		clock = reminder.SystemClock{}
	}
	return &TaskService{repo: r, cache: c, changes: changes, clock: clock}
}

func (s *TaskService) Create(ctx context.Context, userID int64, f TaskFields) (dom.Task, error) {
	t := dom.Task{
		ID:              uuid.NewString(),
		UserID:          userID,
		ProjectID:       f.ProjectID,
		Type:            f.Type,
		Title:           strings.TrimSpace(f.Title),
		Description:     strings.TrimSpace(f.Description),
		Details:         strings.TrimSpace(f.Details),
		IsBigNote:       f.IsBigNote,
		Date:            f.Date,
		Time:            f.Time,
		ReminderMinutes: f.ReminderMinutes,
	}
	if err := normalize(&t); err != nil {
		return dom.Task{}, err
	}
	out, err := s.repo.Create(ctx, t)
	if err != nil {
		return dom.Task{}, mapWriteErr(err)
	}
	s.changed(ctx, userID)
	return out, nil
}

// List returns every task of the user, read through the cache.
func (s *TaskService) List(ctx context.Context, userID int64) ([]dom.Task, error) {
	if s.cache == nil {
		return s.repo.ListByUser(ctx, userID)
	}
	key := "list:" + strconv.FormatInt(userID, 10)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx, userID); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, userID, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Task), nil
}

// Filter applies a timeline filter. day ("YYYY-MM-DD") defaults to today
// and only matters for FilterAll and FilterTodo.
func (s *TaskService) Filter(ctx context.Context, userID int64, f Filter, day string) ([]dom.Task, error) {
	today := s.today()
	if day != "" {
		if err := validateDate(day); err != nil {
			return nil, err
		}
	}
	list, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := []dom.Task{}
	for _, t := range list {
		var keep bool
		switch f {
		case FilterAll, "":
			keep = day == "" || dateIs(t, day)
		case FilterTodo:
			keep = dateIs(t, orDefault(day, today)) && !t.Completed
		case FilterUpcoming:
			keep = t.Planned() && *t.Date > today && !t.Completed
		case FilterUnplanned:
			keep = !t.Planned()
		case FilterNotes:
			keep = t.Type == dom.TaskTypeNote
		default:
			return nil, ErrInvalidFilter
		}
		if keep {
			out = append(out, t)
		}
	}
	return out, nil
}

// Summary counts the timeline sections for day (default today).
func (s *TaskService) Summary(ctx context.Context, userID int64, day string) (Summary, error) {
	today := s.today()
	day = orDefault(day, today)
	if err := validateDate(day); err != nil {
		return Summary{}, err
	}
	list, err := s.List(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Date: day}
	for _, t := range list {
		switch {
		case !t.Planned():
			sum.Unplanned++
		case *t.Date == day && t.Completed:
			sum.Completed++
		case *t.Date == day:
			sum.Todo++
		}
		if t.Planned() && *t.Date > today && !t.Completed {
			sum.Upcoming++
		}
		if t.Type == dom.TaskTypeNote {
			sum.Notes++
		}
	}
	return sum, nil
}

// Schedule lists the reminder instants of the user's tasks on day.
func (s *TaskService) Schedule(ctx context.Context, userID int64, day time.Time) ([]reminder.Instant, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return reminder.Schedule(list, day, day.Location()), nil
}

func (s *TaskService) GetByID(ctx context.Context, userID int64, id string) (dom.Task, error) {
	if !validID(id) {
		return dom.Task{}, ErrNotFound
	}
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Task{}, mapReadErr(err)
	}
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, userID int64, id string, p TaskPatch) (dom.Task, error) {
	existing, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Task{}, err
	}
	patch := existing
	if p.ProjectID != nil {
		patch.ProjectID = p.ProjectID
	}
	if p.Type != nil {
		patch.Type = *p.Type
	}
	if p.Title != nil {
		patch.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		patch.Description = strings.TrimSpace(*p.Description)
	}
	if p.Details != nil {
		patch.Details = strings.TrimSpace(*p.Details)
	}
	if p.IsBigNote != nil {
		patch.IsBigNote = *p.IsBigNote
	}
	if p.Date != nil {
		patch.Date = p.Date
	}
	if p.Time != nil {
		patch.Time = *p.Time
	}
	if p.ReminderMinutes != nil {
		if *p.ReminderMinutes == ClearReminder {
			patch.ReminderMinutes = nil
		} else {
			patch.ReminderMinutes = p.ReminderMinutes
		}
	}
	if p.Completed != nil {
		patch.Completed = *p.Completed
	}
	if err := normalize(&patch); err != nil {
		return dom.Task{}, err
	}
	t, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		return dom.Task{}, mapWriteErr(err)
	}
	s.changed(ctx, userID)
	return t, nil
}

// Toggle flips the completed flag.
func (s *TaskService) Toggle(ctx context.Context, userID int64, id string) (dom.Task, error) {
	existing, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Task{}, err
	}
	t, err := s.repo.SetCompleted(ctx, userID, id, !existing.Completed)
	if err != nil {
		return dom.Task{}, mapReadErr(err)
	}
	s.changed(ctx, userID)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID int64, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return mapReadErr(err)
	}
	s.changed(ctx, userID)
	return nil
}

func (s *TaskService) Search(ctx context.Context, userID int64, q string) ([]dom.Task, error) {
	q = strings.TrimSpace(q)
	if s.cache == nil {
		return s.repo.Search(ctx, userID, q)
	}
	key := "search:" + strconv.FormatInt(userID, 10) + ":" + strings.ToLower(q)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := s.cache.GetSearch(ctx, userID, q); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.Search(ctx, userID, q)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetSearch(ctx, userID, q, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Task), nil
}

// Invalidate drops cached lists of userID, e.g. after its projects changed.
func (s *TaskService) Invalidate(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx, userID)
	}
}

func (s *TaskService) changed(ctx context.Context, userID int64) {
	s.Invalidate(ctx, userID)
	if s.changes == nil {
		return
	}
	if err := s.changes.PublishChanged(ctx, userID); err != nil {
		slog.Debug("task change not published", "user_id", userID, "error", err)
	}
}

func (s *TaskService) today() string {
	return s.clock.Now().Format(reminder.DateLayout)
}

// normalize validates t and rewrites its fields into stored form.
func normalize(t *dom.Task) error {
	if t.Title == "" {
		return ErrEmptyTitle
	}
	switch t.Type {
	case "":
		t.Type = dom.TaskTypeTask
	case dom.TaskTypeTask, dom.TaskTypeNote:
	default:
		return ErrInvalidType
	}
	if t.ProjectID != nil {
		if *t.ProjectID == "" {
			t.ProjectID = nil
		} else if !validID(*t.ProjectID) {
			return ErrInvalidProject
		}
	}
	if t.Date != nil {
		d := strings.TrimSpace(*t.Date)
		if d == "" {
			t.Date = nil
		} else {
			if err := validateDate(d); err != nil {
				return err
			}
			t.Date = &d
		}
	}
	if strings.TrimSpace(t.Time) != "" {
		m, err := reminder.ParseClock(t.Time)
		if err != nil {
			return ErrInvalidTime
		}
		t.Time = reminder.FormatMinute(m)
	} else {
		t.Time = ""
	}
	if t.ReminderMinutes != nil && *t.ReminderMinutes < 0 {
		return ErrInvalidReminder
	}
	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(reminder.DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func dateIs(t dom.Task, day string) bool {
	return t.Planned() && *t.Date == day
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func mapReadErr(err error) error {
	if utils.IsNoRows(err) {
		return ErrNotFound
	}
	return err
}

func mapWriteErr(err error) error {
	if utils.IsPGForeignKeyViolation(err) {
		return ErrInvalidProject
	}
	return mapReadErr(err)
}
