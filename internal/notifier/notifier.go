package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"line-calendar-bot/internal/assistant/repository"
	"line-calendar-bot/internal/model"
	pkgLog "line-calendar-bot/pkg/log"
)

const (
	// DefaultInterval is the scheduled check cadence.
	DefaultInterval = 15 * time.Minute

	// Events starting within this window (minutes from now) get a
	// reminder push.
	reminderWindowMin = 10
	reminderWindowMax = 35

	// Task due-today digests go out once per day in this local-hour
	// window.
	taskDigestHourFrom = 8
	taskDigestHourTo   = 10

	dedupeTTL      = 24 * time.Hour
	dedupeCapacity = 8192
)

// Pusher sends a proactive message to a user. *line.Client satisfies it.
type Pusher interface {
	PushMessage(userID string, texts ...string) error
}

// Notifier runs the periodic reminder check: upcoming events and
// tasks due today. Every push is best-effort; a failing user never
// blocks the others.
type Notifier struct {
	l        pkgLog.Logger
	repo     repository.EntityRepository
	pusher   Pusher
	registry *Registry
	location *time.Location
	interval time.Duration

	// sent dedupes reminders: one per event per day, one task digest
	// per user per day.
	sent *expirable.LRU[string, struct{}]

	now func() time.Time
}

// New creates a reminder notifier.
func New(l pkgLog.Logger, repo repository.EntityRepository, pusher Pusher, registry *Registry, timezone string, interval time.Duration) (*Notifier, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Notifier{
		l:        l,
		repo:     repo,
		pusher:   pusher,
		registry: registry,
		location: loc,
		interval: interval,
		sent:     expirable.NewLRU[string, struct{}](dedupeCapacity, nil, dedupeTTL),
		now:      time.Now,
	}, nil
}

// SetNowFunc overrides the clock for testing purposes.
func (n *Notifier) SetNowFunc(fn func() time.Time) {
	n.now = fn
}

// Run blocks, checking reminders on every tick until ctx is done.
func (n *Notifier) Run(ctx context.Context) {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	n.l.Infof(ctx, "notifier: started, interval %s", n.interval)
	for {
		select {
		case <-ctx.Done():
			n.l.Infof(ctx, "notifier: stopped")
			return
		case <-ticker.C:
			n.CheckOnce(ctx)
		}
	}
}

// CheckOnce runs a single reminder sweep over all registered users.
func (n *Notifier) CheckOnce(ctx context.Context) {
	now := n.now().In(n.location)

	for _, userID := range n.registry.All() {
		sc := model.Scope{UserID: userID}
		if err := n.checkEvents(ctx, sc, now); err != nil {
			n.l.Warnf(ctx, "notifier: event check for %s: %v", userID, err)
		}
		if err := n.checkTasksDueToday(ctx, sc, now); err != nil {
			n.l.Warnf(ctx, "notifier: task check for %s: %v", userID, err)
		}
	}
}

func (n *Notifier) checkEvents(ctx context.Context, sc model.Scope, now time.Time) error {
	events, err := n.repo.ListEvents(ctx, sc, 1)
	if err != nil {
		return err
	}

	for _, ev := range events {
		start, ok := n.eventStart(ev)
		if !ok {
			continue
		}

		minutesUntil := int(start.Sub(now).Minutes())
		if minutesUntil < reminderWindowMin || minutesUntil > reminderWindowMax {
			continue
		}

		key := fmt.Sprintf("event:%s:%s", sc.UserID, ev.ID)
		if _, dup := n.sent.Get(key); dup {
			continue
		}

		msg := fmt.Sprintf("⏰ まもなく予定があります\n\n📅 %s\n⏰ %s %s\n\n約%d分後に開始します",
			ev.Title, monthDay(ev.Date), ev.StartTime, minutesUntil)
		if err := n.pusher.PushMessage(sc.UserID, msg); err != nil {
			n.l.Warnf(ctx, "notifier: push to %s: %v", sc.UserID, err)
			continue
		}
		n.sent.Add(key, struct{}{})
	}
	return nil
}

func (n *Notifier) checkTasksDueToday(ctx context.Context, sc model.Scope, now time.Time) error {
	hour := now.Hour()
	if hour < taskDigestHourFrom || hour > taskDigestHourTo {
		return nil
	}

	today := now.Format("2006-01-02")
	key := fmt.Sprintf("tasks:%s:%s", sc.UserID, today)
	if _, dup := n.sent.Get(key); dup {
		return nil
	}

	tasks, err := n.repo.ListTasks(ctx, sc)
	if err != nil {
		return err
	}

	var due []model.Entity
	for _, task := range tasks {
		if task.Date == today {
			due = append(due, task)
		}
	}
	if len(due) == 0 {
		return nil
	}

	msg := "📝 今日期限のタスクがあります\n"
	for i, task := range due {
		msg += fmt.Sprintf("\n%d. %s", i+1, task.Title)
	}
	if err := n.pusher.PushMessage(sc.UserID, msg); err != nil {
		return err
	}
	n.sent.Add(key, struct{}{})
	return nil
}

// eventStart composes the concrete start time of a timed event; all-day
// and undated entries produce no reminder.
func (n *Notifier) eventStart(ev model.Entity) (time.Time, bool) {
	if ev.IsAllDay || ev.Date == "" || ev.StartTime == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", ev.Date+" "+ev.StartTime, n.location)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func monthDay(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
}
