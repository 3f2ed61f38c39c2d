package usecase

import (
	"context"
	"fmt"
	"strings"

	"line-calendar-bot/internal/assistant/repository"
	"line-calendar-bot/internal/dispatcher"
	"line-calendar-bot/internal/model"
)

func (uc *implUseCase) createAction(ctx context.Context, sc model.Scope, cmd *model.Command) outcome {
	if cmd.Type == model.EntityTask {
		return uc.createTask(ctx, sc, cmd)
	}
	return uc.createEvent(ctx, sc, cmd)
}

func (uc *implUseCase) createTask(ctx context.Context, sc model.Scope, cmd *model.Command) outcome {
	created, err := uc.repo.CreateTask(ctx, sc, repository.CreateTaskOptions{
		Title:    cmd.Title,
		Due:      cmd.Date,
		ListName: cmd.ListName,
		Starred:  cmd.Starred,
	})
	if err != nil {
		uc.l.Errorf(ctx, "assistant.createTask: %v", err)
		return outcome{reply: msgGenericError, keepList: true}
	}

	reply := fmt.Sprintf("✅ タスクを登録しました！\n\n📝 %s\n📋 リスト: %s", cmd.Title, created.ListTitle)
	if cmd.Date != "" {
		reply += fmt.Sprintf("\n📅 期限: %s", cmd.Date)
	}
	return outcome{reply: reply}
}

func (uc *implUseCase) createEvent(ctx context.Context, sc model.Scope, cmd *model.Command) outcome {
	date := cmd.Date
	if date == "" {
		date = uc.dates.Today(uc.now())
	}
	isAllDay := cmd.IsAllDay || cmd.StartTime == ""

	_, err := uc.repo.CreateEvent(ctx, sc, repository.CreateEventOptions{
		Title:     cmd.Title,
		Date:      date,
		StartTime: cmd.StartTime,
		EndTime:   cmd.EndTime,
		IsAllDay:  isAllDay,
		Location:  cmd.Location,
	})
	if err != nil {
		uc.l.Errorf(ctx, "assistant.createEvent: %v", err)
		return outcome{reply: msgGenericError, keepList: true}
	}

	timeStr := "終日"
	if !isAllDay {
		timeStr = cmd.StartTime
		if cmd.EndTime != "" {
			timeStr += " - " + cmd.EndTime
		}
	}
	return outcome{reply: fmt.Sprintf("📅 予定を登録しました！\n\n📝 %s\n📅 %s\n⏰ %s", cmd.Title, date, timeStr)}
}

func (uc *implUseCase) listAction(cmd *model.Command, candidates []model.Entity) outcome {
	if cmd.Type == model.EntityTask {
		if len(candidates) == 0 {
			return outcome{reply: msgNoTasks}
		}
		reply, items := renderTaskList(candidates)
		return outcome{reply: reply, list: items}
	}

	pool := filterByDate(candidates, cmd.Date)
	if len(pool) == 0 {
		if cmd.Date != "" {
			return outcome{reply: fmt.Sprintf("📅 %s の予定はありません", cmd.Date)}
		}
		return outcome{reply: msgNoEvents}
	}
	reply, items := renderEventList(pool)
	return outcome{reply: reply, list: items}
}

func (uc *implUseCase) cancelAction(ctx context.Context, sc model.Scope, res *dispatcher.Resolution) outcome {
	if res.NeedsSelection {
		if len(res.Candidates) == 0 {
			return outcome{reply: msgNeedCancelKeyword}
		}
		reply, items := renderSelectionPrompt(res.Candidates)
		return outcome{reply: reply, list: items}
	}

	var done []string
	var failed []dispatcher.BatchFailure
	failed = append(failed, res.Failures...)

	for _, target := range res.Targets {
		var err error
		if target.EntityType == model.EntityTask {
			err = uc.repo.DeleteTask(ctx, sc, target.ListID, target.EntityID)
		} else {
			err = uc.repo.DeleteEvent(ctx, sc, target.EntityID)
		}
		if err != nil {
			uc.l.Errorf(ctx, "assistant.cancelAction: %s: %v", target.EntityID, err)
			failed = append(failed, dispatcher.BatchFailure{Index: target.Index})
			continue
		}
		done = append(done, target.Title)
	}

	if len(done) == 0 && len(failed) > 0 {
		return outcome{reply: msgGenericError, keepList: true}
	}

	reply := "🗑️ 予定をキャンセルしました\n"
	for _, title := range done {
		reply += fmt.Sprintf("\n📅 %s", title)
	}
	reply += batchFailureNote(failed)
	return outcome{reply: reply}
}

func (uc *implUseCase) completeAction(ctx context.Context, sc model.Scope, res *dispatcher.Resolution) outcome {
	if res.NeedsSelection {
		if len(res.Candidates) == 0 {
			return outcome{reply: msgNoTasks}
		}
		reply, items := renderTaskList(res.Candidates)
		return outcome{reply: reply, list: items}
	}

	var done []string
	var failed []dispatcher.BatchFailure
	failed = append(failed, res.Failures...)

	for _, target := range res.Targets {
		if target.EntityType != model.EntityTask {
			failed = append(failed, dispatcher.BatchFailure{Index: target.Index})
			continue
		}
		if err := uc.repo.CompleteTask(ctx, sc, target.ListID, target.EntityID); err != nil {
			uc.l.Errorf(ctx, "assistant.completeAction: %s: %v", target.EntityID, err)
			failed = append(failed, dispatcher.BatchFailure{Index: target.Index})
			continue
		}
		done = append(done, target.Title)
	}

	if len(done) == 0 {
		return outcome{reply: "⚠️ タスクが見つかりませんでした", keepList: true}
	}

	reply := "✅ タスクを完了しました\n"
	for _, title := range done {
		reply += fmt.Sprintf("\n📝 %s", title)
	}
	reply += batchFailureNote(failed)
	return outcome{reply: reply}
}

func (uc *implUseCase) updateAction(ctx context.Context, sc model.Scope, cmd *model.Command, res *dispatcher.Resolution) outcome {
	if res.NeedsSelection {
		if len(res.Candidates) == 0 {
			return outcome{reply: msgNoEvents}
		}
		reply, items := renderSelectionPrompt(res.Candidates)
		return outcome{reply: reply, list: items}
	}

	if cmd.Date == "" && cmd.StartTime == "" {
		return outcome{reply: msgNeedUpdateTime, keepList: true}
	}
	if len(res.Targets) == 0 {
		return outcome{reply: msgGenericError, keepList: true}
	}

	target := res.Targets[0]
	date := cmd.Date
	if date == "" {
		date = uc.dates.Today(uc.now())
	}

	updated, err := uc.repo.UpdateEventTime(ctx, sc, repository.UpdateEventTimeOptions{
		EventID:   target.EntityID,
		Date:      date,
		StartTime: cmd.StartTime,
		EndTime:   cmd.EndTime,
	})
	if err != nil {
		uc.l.Errorf(ctx, "assistant.updateAction: %s: %v", target.EntityID, err)
		return outcome{reply: msgGenericError, keepList: true}
	}

	timeStr := updated.StartTime
	if updated.EndTime != "" {
		timeStr += " - " + updated.EndTime
	}
	return outcome{reply: fmt.Sprintf("🔄 予定を変更しました\n\n📅 %s\n⏰ %s %s", target.Title, date, timeStr)}
}

// batchFailureNote lists the indices of a batch that did not resolve.
// Partial failures are surfaced explicitly, the batch never pretends to
// be all-or-nothing.
func batchFailureNote(failed []dispatcher.BatchFailure) string {
	if len(failed) == 0 {
		return ""
	}
	nums := make([]string, 0, len(failed))
	for _, f := range failed {
		nums = append(nums, fmt.Sprintf("%d番", f.Index))
	}
	return fmt.Sprintf("\n\n⚠️ %s は処理できませんでした", strings.Join(nums, "、"))
}

// filterByDate keeps events on the given date; empty date keeps all.
func filterByDate(events []model.Entity, date string) []model.Entity {
	if date == "" {
		return events
	}
	var out []model.Entity
	for _, e := range events {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}
