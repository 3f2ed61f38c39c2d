package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"line-calendar-bot/internal/assistant/repository"
	"line-calendar-bot/internal/model"
	"line-calendar-bot/pkg/gcalendar"
	"line-calendar-bot/pkg/gtasks"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	maxListedEvents = 50
)

func (r *implRepository) ListEvents(ctx context.Context, sc model.Scope, days int) ([]model.Entity, error) {
	now := r.now().In(r.location)
	events, err := r.calendar.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID: r.calendarID,
		TimeMin:    now,
		TimeMax:    now.AddDate(0, 0, days),
		MaxResults: maxListedEvents,
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	entities := make([]model.Entity, 0, len(events))
	for _, ev := range events {
		entities = append(entities, r.eventEntity(ev))
	}
	return entities, nil
}

func (r *implRepository) ListTasks(ctx context.Context, sc model.Scope) ([]model.Entity, error) {
	lists, err := r.tasks.ListTaskLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("list task lists: %w", err)
	}

	var entities []model.Entity
	for _, list := range lists {
		items, err := r.tasks.ListIncompleteTasks(ctx, list.ID)
		if err != nil {
			return nil, fmt.Errorf("list tasks in %q: %w", list.Title, err)
		}
		for _, item := range items {
			entities = append(entities, taskEntity(item))
		}
	}
	return entities, nil
}

func (r *implRepository) CreateEvent(ctx context.Context, sc model.Scope, opt repository.CreateEventOptions) (model.Entity, error) {
	start, end, err := r.eventTimes(opt.Date, opt.StartTime, opt.EndTime, opt.IsAllDay)
	if err != nil {
		return model.Entity{}, err
	}

	ev, err := r.calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
		CalendarID: r.calendarID,
		Summary:    opt.Title,
		Location:   opt.Location,
		StartTime:  start,
		EndTime:    end,
		IsAllDay:   opt.IsAllDay,
		Timezone:   r.timezone,
	})
	if err != nil {
		return model.Entity{}, fmt.Errorf("create event: %w", err)
	}
	return r.eventEntity(*ev), nil
}

func (r *implRepository) CreateTask(ctx context.Context, sc model.Scope, opt repository.CreateTaskOptions) (repository.CreatedTask, error) {
	list, err := r.resolveTaskList(ctx, opt.ListName)
	if err != nil {
		return repository.CreatedTask{}, err
	}

	// Google Tasks has no star flag, so importance is kept visible in
	// the title the way the companion app renders it.
	title := opt.Title
	if opt.Starred {
		title = "⭐ " + title
	}

	task, err := r.tasks.CreateTask(ctx, gtasks.CreateTaskRequest{
		ListID: list.ID,
		Title:  title,
		Due:    opt.Due,
	})
	if err != nil {
		return repository.CreatedTask{}, fmt.Errorf("create task: %w", err)
	}
	return repository.CreatedTask{
		Entity:    taskEntity(*task),
		ListTitle: list.Title,
	}, nil
}

func (r *implRepository) DeleteEvent(ctx context.Context, sc model.Scope, eventID string) error {
	if err := r.calendar.DeleteEvent(ctx, r.calendarID, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (r *implRepository) UpdateEventTime(ctx context.Context, sc model.Scope, opt repository.UpdateEventTimeOptions) (model.Entity, error) {
	start, end, err := r.eventTimes(opt.Date, opt.StartTime, opt.EndTime, false)
	if err != nil {
		return model.Entity{}, err
	}

	ev, err := r.calendar.PatchEventTime(ctx, r.calendarID, opt.EventID, start, end, r.timezone)
	if err != nil {
		return model.Entity{}, fmt.Errorf("update event time: %w", err)
	}
	return r.eventEntity(*ev), nil
}

func (r *implRepository) CompleteTask(ctx context.Context, sc model.Scope, listID, taskID string) error {
	if err := r.tasks.CompleteTask(ctx, listID, taskID); err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

func (r *implRepository) DeleteTask(ctx context.Context, sc model.Scope, listID, taskID string) error {
	if err := r.tasks.DeleteTask(ctx, listID, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// resolveTaskList finds the list matching name, falling back to the
// user's first (default) list.
func (r *implRepository) resolveTaskList(ctx context.Context, name string) (gtasks.TaskList, error) {
	lists, err := r.tasks.ListTaskLists(ctx)
	if err != nil {
		return gtasks.TaskList{}, fmt.Errorf("list task lists: %w", err)
	}
	if len(lists) == 0 {
		return gtasks.TaskList{}, fmt.Errorf("user has no task lists")
	}
	if name != "" {
		for _, list := range lists {
			if list.Title == name {
				return list, nil
			}
		}
	}
	return lists[0], nil
}

// eventTimes composes concrete timestamps from the command's date and
// time strings. All-day events span the whole date.
func (r *implRepository) eventTimes(date, startTime, endTime string, isAllDay bool) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, r.location)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad date %q: %w", date, err)
	}

	if isAllDay || startTime == "" {
		return day, day.AddDate(0, 0, 1), nil
	}

	start, err := atTime(day, startTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end := start.Add(time.Hour)
	if endTime != "" {
		if end, err = atTime(day, endTime); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start, end, nil
}

func atTime(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse(timeLayout, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad time %q: %w", hhmm, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

func (r *implRepository) eventEntity(ev gcalendar.Event) model.Entity {
	e := model.Entity{
		ID:       ev.ID,
		Type:     model.EntityEvent,
		Title:    ev.Summary,
		IsAllDay: ev.IsAllDay,
	}
	if !ev.StartTime.IsZero() {
		local := ev.StartTime.In(r.location)
		e.Date = local.Format(dateLayout)
		if !ev.IsAllDay {
			e.StartTime = local.Format(timeLayout)
		}
	}
	if !ev.EndTime.IsZero() && !ev.IsAllDay {
		e.EndTime = ev.EndTime.In(r.location).Format(timeLayout)
	}
	return e
}

func taskEntity(task gtasks.Task) model.Entity {
	title, starred := strings.CutPrefix(task.Title, "⭐ ")
	return model.Entity{
		ID:      task.ID,
		Type:    model.EntityTask,
		Title:   title,
		Date:    task.Due,
		Starred: starred,
		ListID:  task.ListID,
	}
}
