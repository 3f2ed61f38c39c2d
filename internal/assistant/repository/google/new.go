package google

import (
	"time"

	"line-calendar-bot/internal/assistant/repository"
	"line-calendar-bot/pkg/gcalendar"
	"line-calendar-bot/pkg/gtasks"
	pkgLog "line-calendar-bot/pkg/log"
)

type implRepository struct {
	l          pkgLog.Logger
	calendar   *gcalendar.Client
	tasks      *gtasks.Client
	calendarID string
	timezone   string
	location   *time.Location
	now        func() time.Time
}

// New creates an EntityRepository backed by Google Calendar and Google
// Tasks. calendarID is usually "primary".
func New(l pkgLog.Logger, calendar *gcalendar.Client, tasks *gtasks.Client, calendarID, timezone string) (repository.EntityRepository, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &implRepository{
		l:          l,
		calendar:   calendar,
		tasks:      tasks,
		calendarID: calendarID,
		timezone:   timezone,
		location:   loc,
		now:        time.Now,
	}, nil
}
