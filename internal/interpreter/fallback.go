package interpreter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"line-calendar-bot/internal/model"
	"line-calendar-bot/pkg/dateparse"
)

// The fallback parser covers the basic command shapes without any
// network call. Rules are evaluated in order and the first structural
// match wins; the order matters because the patterns overlap (the
// cancel rule's `^(.+?)...` would swallow almost anything placed
// earlier in the table).

type fallbackRule struct {
	re    *regexp.Regexp
	build func(m []string, now time.Time, dates *dateparse.Resolver) *model.Command
}

var fallbackRules = []fallbackRule{
	{
		// 予定確認 / スケジュール一覧
		re: regexp.MustCompile(`^(予定|スケジュール)(確認|一覧|チェック|表示)$`),
		build: func(m []string, now time.Time, dates *dateparse.Resolver) *model.Command {
			return &model.Command{Action: model.ActionList, Type: model.EntityEvent}
		},
	},
	{
		// タスク一覧 / タスク確認
		re: regexp.MustCompile(`^タスク(一覧|確認|チェック|表示)$`),
		build: func(m []string, now time.Time, dates *dateparse.Resolver) *model.Command {
			return &model.Command{Action: model.ActionList, Type: model.EntityTask}
		},
	},
	{
		// 今日の予定 / 明日のスケジュール
		re: regexp.MustCompile(`^(今日|明日|明後日)の(予定|スケジュール)$`),
		build: func(m []string, now time.Time, dates *dateparse.Resolver) *model.Command {
			date, _ := dates.ResolveDate(m[1], now)
			return &model.Command{Action: model.ActionList, Type: model.EntityEvent, Date: date}
		},
	},
	{
		// 「1完了」「2番完了」「3 done」
		re: regexp.MustCompile(`(?i)^(\d+)\s*番?\s*(完了|done|済み)`),
		build: func(m []string, now time.Time, dates *dateparse.Resolver) *model.Command {
			n, _ := strconv.Atoi(m[1])
			return &model.Command{Action: model.ActionComplete, TargetNumber: n}
		},
	},
	{
		// 「ミーティングをキャンセル」「打ち合わせの削除」
		re: regexp.MustCompile(`^(.+?)(を|の)?\s*(キャンセル|削除|取り消し?)$`),
		build: func(m []string, now time.Time, dates *dateparse.Resolver) *model.Command {
			return &model.Command{
				Action: model.ActionCancel,
				Type:   model.EntityEvent,
				Title:  strings.TrimSpace(m[1]),
			}
		},
	},
	{
		// 「タスク 牛乳を買う」「タスク 書類提出 期限明日」
		re: regexp.MustCompile(`^タスク\s+(.+?)(?:\s+期限\s*(.+))?$`),
		build: func(m []string, now time.Time, dates *dateparse.Resolver) *model.Command {
			cmd := &model.Command{
				Action: model.ActionCreate,
				Type:   model.EntityTask,
				Title:  strings.TrimSpace(m[1]),
			}
			if m[2] != "" {
				if date, ok := dates.ResolveDate(strings.TrimSpace(m[2]), now); ok {
					cmd.Date = date
				}
			}
			return cmd
		},
	},
	{
		// 「明日14時 ミーティング」「明後日 10:00 打ち合わせ」
		re: regexp.MustCompile(`^(今日|明日|明後日)\s*(\d{1,2})[時:](\d{0,2})?\s+(.+)`),
		build: func(m []string, now time.Time, dates *dateparse.Resolver) *model.Command {
			date, _ := dates.ResolveDate(m[1], now)
			hour, _ := strconv.Atoi(m[2])
			minute := 0
			if m[3] != "" {
				minute, _ = strconv.Atoi(m[3])
			}
			return &model.Command{
				Action:    model.ActionCreate,
				Type:      model.EntityEvent,
				Title:     strings.TrimSpace(m[4]),
				Date:      date,
				StartTime: fmt.Sprintf("%02d:%02d", hour, minute),
				EndTime:   oneHourLater(hour, minute),
			}
		},
	},
	{
		// 「3/15 14時 会議」「3月15日 10:00 打ち合わせ」
		re: regexp.MustCompile(`^(\d{1,2})[月/](\d{1,2})日?\s*(?:(\d{1,2})[時:](\d{0,2})?)?\s+(.+)`),
		build: func(m []string, now time.Time, dates *dateparse.Resolver) *model.Command {
			date, ok := dates.ResolveDate(fmt.Sprintf("%s/%s", m[1], m[2]), now)
			if !ok {
				return nil
			}
			cmd := &model.Command{
				Action: model.ActionCreate,
				Type:   model.EntityEvent,
				Title:  strings.TrimSpace(m[5]),
				Date:   date,
			}
			if m[3] != "" {
				hour, _ := strconv.Atoi(m[3])
				minute := 0
				if m[4] != "" {
					minute, _ = strconv.Atoi(m[4])
				}
				cmd.StartTime = fmt.Sprintf("%02d:%02d", hour, minute)
				cmd.EndTime = oneHourLater(hour, minute)
			} else {
				cmd.IsAllDay = true
			}
			return cmd
		},
	},
}

// oneHourLater gives the default event end. A start in the last hour of
// the day clamps to 23:59 so the end stays a valid wall-clock time.
func oneHourLater(hour, minute int) string {
	if hour >= 23 {
		return "23:59"
	}
	return fmt.Sprintf("%02d:%02d", hour+1, minute)
}

// FallbackParse classifies text using the rule table above. Given the
// same text and anchor time it always returns the same result.
func (i *implInterpreter) FallbackParse(text string, now time.Time) (*model.Command, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}

	for _, rule := range fallbackRules {
		m := rule.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		if cmd := rule.build(m, now, i.dates); cmd != nil {
			return cmd, true
		}
	}
	return nil, false
}
