package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"line-calendar-bot/internal/assistant"
	"line-calendar-bot/internal/assistant/repository"
	"line-calendar-bot/internal/interpreter"
	"line-calendar-bot/internal/model"
	"line-calendar-bot/pkg/dateparse"
)

func command(cmd model.Command) func(context.Context, string, model.ConversationContext, time.Time) (*model.Command, error) {
	return func(context.Context, string, model.ConversationContext, time.Time) (*model.Command, error) {
		return &cmd, nil
	}
}

func taskItems(n int) []model.ListItem {
	titles := []string{"牛乳を買う", "書類提出", "掃除", "メール返信", "請求書処理"}
	items := make([]model.ListItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, model.ListItem{
			Index:      i + 1,
			EntityID:   "task-" + string(rune('a'+i)),
			EntityType: model.EntityTask,
			Title:      titles[i%len(titles)],
			ListID:     "list-1",
		})
	}
	return items
}

func TestHandleMessage(t *testing.T) {
	ctx := context.Background()
	sc := model.Scope{UserID: "U1"}

	t.Run("Create Task", func(t *testing.T) {
		f := newFixture()
		f.interp.interpretFn = command(model.Command{
			Action: model.ActionCreate, Type: model.EntityTask, Title: "牛乳を買う",
		})

		var got repository.CreateTaskOptions
		f.repo.createTaskFn = func(_ context.Context, _ model.Scope, opt repository.CreateTaskOptions) (repository.CreatedTask, error) {
			got = opt
			return repository.CreatedTask{
				Entity:    model.Entity{ID: "task-new", Type: model.EntityTask, Title: opt.Title},
				ListTitle: "マイタスク",
			}, nil
		}

		out, err := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "タスク 牛乳を買う"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Title != "牛乳を買う" || got.Due != "" {
			t.Errorf("got options %+v", got)
		}
		if !strings.Contains(out.Reply, "✅ タスクを登録しました") {
			t.Errorf("got reply %q", out.Reply)
		}
	})

	t.Run("Create Event Via Pattern Fallback", func(t *testing.T) {
		f := newFixture()
		// LLM down, pattern parser takes over.
		f.interp.interpretFn = func(context.Context, string, model.ConversationContext, time.Time) (*model.Command, error) {
			return nil, interpreter.ErrLLMUnavailable
		}
		dates, _ := dateparse.NewResolver("Asia/Tokyo")
		real := interpreter.New(&mockLogger{}, nil, dates)
		f.interp.fallbackFn = real.FallbackParse

		var got repository.CreateEventOptions
		f.repo.createEventFn = func(_ context.Context, _ model.Scope, opt repository.CreateEventOptions) (model.Entity, error) {
			got = opt
			return model.Entity{ID: "ev-new", Type: model.EntityEvent, Title: opt.Title}, nil
		}

		out, err := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "明日14時 ミーティング"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Title != "ミーティング" || got.Date != "2025-06-02" || got.StartTime != "14:00" || got.EndTime != "15:00" {
			t.Errorf("got options %+v", got)
		}
		if !strings.Contains(out.Reply, "📅 予定を登録しました") {
			t.Errorf("got reply %q", out.Reply)
		}
	})

	t.Run("Create Event Without Time Is All Day", func(t *testing.T) {
		f := newFixture()
		f.interp.interpretFn = command(model.Command{
			Action: model.ActionCreate, Type: model.EntityEvent, Title: "健康診断", Date: "2025-06-10", IsAllDay: true,
		})

		var got repository.CreateEventOptions
		f.repo.createEventFn = func(_ context.Context, _ model.Scope, opt repository.CreateEventOptions) (model.Entity, error) {
			got = opt
			return model.Entity{ID: "ev-new"}, nil
		}

		out, _ := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "6/10 健康診断"})
		if !got.IsAllDay {
			t.Error("expected all-day event")
		}
		if !strings.Contains(out.Reply, "終日") {
			t.Errorf("got reply %q", out.Reply)
		}
	})

	t.Run("Complete By Number Against Prior List", func(t *testing.T) {
		f := newFixture()
		f.ctxRepo.Put("U1", model.ConversationContext{LastShownList: taskItems(4)})
		f.interp.interpretFn = command(model.Command{Action: model.ActionComplete, TargetNumber: 3})

		var gotListID, gotTaskID string
		f.repo.completeTaskFn = func(_ context.Context, _ model.Scope, listID, taskID string) error {
			gotListID, gotTaskID = listID, taskID
			return nil
		}

		out, err := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "3番完了"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotTaskID != "task-c" || gotListID != "list-1" {
			t.Errorf("completed %s/%s", gotListID, gotTaskID)
		}
		if !strings.Contains(out.Reply, "✅ タスクを完了しました") || !strings.Contains(out.Reply, "掃除") {
			t.Errorf("got reply %q", out.Reply)
		}
	})

	t.Run("Batch Partial Success", func(t *testing.T) {
		f := newFixture()
		f.ctxRepo.Put("U1", model.ConversationContext{LastShownList: taskItems(5)})
		f.interp.interpretFn = command(model.Command{Action: model.ActionComplete, TargetNumbers: []int{5, 6, 7}})

		var completed []string
		f.repo.completeTaskFn = func(_ context.Context, _ model.Scope, listID, taskID string) error {
			completed = append(completed, taskID)
			return nil
		}

		out, err := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "5,6,7完了"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(completed) != 1 || completed[0] != "task-e" {
			t.Errorf("completed %v", completed)
		}
		if !strings.Contains(out.Reply, "✅ タスクを完了しました") {
			t.Errorf("got reply %q", out.Reply)
		}
		if !strings.Contains(out.Reply, "6番") || !strings.Contains(out.Reply, "7番") {
			t.Errorf("partial failures must be surfaced, got %q", out.Reply)
		}
	})

	t.Run("Cancel By Keyword Single Match", func(t *testing.T) {
		f := newFixture()
		f.interp.interpretFn = command(model.Command{Action: model.ActionCancel, Type: model.EntityEvent, Title: "ミーティング"})
		f.repo.listEventsFn = func(context.Context, model.Scope, int) ([]model.Entity, error) {
			return []model.Entity{
				{ID: "ev-1", Type: model.EntityEvent, Title: "ミーティング", Date: "2025-06-03", StartTime: "14:00"},
				{ID: "ev-2", Type: model.EntityEvent, Title: "歯医者", Date: "2025-06-04"},
			}, nil
		}

		var deleted string
		f.repo.deleteEventFn = func(_ context.Context, _ model.Scope, eventID string) error {
			deleted = eventID
			return nil
		}

		out, err := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "ミーティングをキャンセル"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if deleted != "ev-1" {
			t.Errorf("deleted %q", deleted)
		}
		if !strings.Contains(out.Reply, "🗑️ 予定をキャンセルしました") {
			t.Errorf("got reply %q", out.Reply)
		}
	})

	t.Run("Cancel By Keyword Not Found", func(t *testing.T) {
		f := newFixture()
		f.interp.interpretFn = command(model.Command{Action: model.ActionCancel, Type: model.EntityEvent, Title: "ミーティング"})
		f.repo.listEventsFn = func(context.Context, model.Scope, int) ([]model.Entity, error) {
			return []model.Entity{{ID: "ev-2", Type: model.EntityEvent, Title: "歯医者"}}, nil
		}

		out, _ := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "ミーティングをキャンセル"})
		if !strings.Contains(out.Reply, "❌") || !strings.Contains(out.Reply, "ミーティング") {
			t.Errorf("got reply %q", out.Reply)
		}
	})

	t.Run("Cancel Multiple Matches Renders Selection", func(t *testing.T) {
		f := newFixture()
		f.interp.interpretFn = command(model.Command{Action: model.ActionCancel, Type: model.EntityEvent, Keyword: "ミーティング"})
		f.repo.listEventsFn = func(context.Context, model.Scope, int) ([]model.Entity, error) {
			return []model.Entity{
				{ID: "ev-1", Type: model.EntityEvent, Title: "朝のミーティング", Date: "2025-06-03", StartTime: "09:00"},
				{ID: "ev-2", Type: model.EntityEvent, Title: "夕方のミーティング", Date: "2025-06-03", StartTime: "17:00"},
			}, nil
		}

		out, _ := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "ミーティングをキャンセル"})
		if !strings.Contains(out.Reply, "2 件あります") {
			t.Errorf("got reply %q", out.Reply)
		}

		// The disambiguation list becomes the next LastShownList.
		stored, ok := f.ctxRepo.Get("U1")
		if !ok || len(stored.LastShownList) != 2 {
			t.Fatalf("stored context %+v", stored)
		}
		if stored.LastShownList[0].EntityID != "ev-1" || stored.LastShownList[1].EntityID != "ev-2" {
			t.Errorf("stored list %+v", stored.LastShownList)
		}
	})

	t.Run("List Tasks Updates Shown List", func(t *testing.T) {
		f := newFixture()
		f.interp.interpretFn = command(model.Command{Action: model.ActionList, Type: model.EntityTask})
		f.repo.listTasksFn = func(context.Context, model.Scope) ([]model.Entity, error) {
			return []model.Entity{
				{ID: "task-1", Type: model.EntityTask, Title: "牛乳を買う", ListID: "list-1"},
				{ID: "task-2", Type: model.EntityTask, Title: "書類提出", Date: "2025-06-02", Starred: true, ListID: "list-1"},
			}, nil
		}

		out, err := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "タスク一覧"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.Reply, "1. □ 牛乳を買う") || !strings.Contains(out.Reply, "2. ⭐ 書類提出") {
			t.Errorf("got reply %q", out.Reply)
		}

		stored, _ := f.ctxRepo.Get("U1")
		if len(stored.LastShownList) != 2 || stored.LastShownList[1].EntityID != "task-2" {
			t.Errorf("stored list %+v", stored.LastShownList)
		}
		if stored.LastBotMessage != out.Reply {
			t.Error("LastBotMessage should be the sent reply")
		}
	})

	t.Run("Whitespace Only Message Is Rejected", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "  \n "})
		if !errors.Is(err, assistant.ErrEmptyMessage) {
			t.Fatalf("got err %v, want ErrEmptyMessage", err)
		}
		if len(f.recorder.interactions) != 0 {
			t.Errorf("recorded %d interactions for empty input", len(f.recorder.interactions))
		}
	})

	t.Run("List With Keyword Still Lists Events", func(t *testing.T) {
		f := newFixture()
		f.interp.interpretFn = command(model.Command{Action: model.ActionList, Type: model.EntityEvent, Keyword: "ミーティング"})
		f.repo.listEventsFn = func(context.Context, model.Scope, int) ([]model.Entity, error) {
			return []model.Entity{
				{ID: "ev-1", Type: model.EntityEvent, Title: "ミーティング", Date: "2025-06-02", StartTime: "14:00"},
				{ID: "ev-2", Type: model.EntityEvent, Title: "歯医者", Date: "2025-06-03", StartTime: "10:00"},
			}, nil
		}

		out, err := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "ミーティングの予定を見せて"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Reply == msgNoEvents {
			t.Fatal("got the empty-calendar reply with events present")
		}
		if !strings.Contains(out.Reply, "ミーティング") {
			t.Errorf("got reply %q, want the matching event listed", out.Reply)
		}
	})

	t.Run("List Events Empty", func(t *testing.T) {
		f := newFixture()
		f.interp.interpretFn = command(model.Command{Action: model.ActionList, Type: model.EntityEvent})

		out, _ := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "予定確認"})
		if out.Reply != msgNoEvents {
			t.Errorf("got reply %q", out.Reply)
		}
	})

	t.Run("Number Without Active List Times Out", func(t *testing.T) {
		f := newFixture()
		f.interp.interpretFn = command(model.Command{Action: model.ActionComplete, TargetNumber: 1})

		out, _ := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "1完了"})
		if !strings.Contains(out.Reply, "⏰ 操作がタイムアウトしました") {
			t.Errorf("got reply %q", out.Reply)
		}
	})

	t.Run("Out Of Range Keeps List", func(t *testing.T) {
		f := newFixture()
		f.ctxRepo.Put("U1", model.ConversationContext{LastShownList: taskItems(3)})
		f.interp.interpretFn = command(model.Command{Action: model.ActionComplete, TargetNumber: 9})

		out, _ := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "9完了"})
		if !strings.Contains(out.Reply, "9番") {
			t.Errorf("got reply %q", out.Reply)
		}

		stored, _ := f.ctxRepo.Get("U1")
		if len(stored.LastShownList) != 3 {
			t.Errorf("the shown list must survive an out-of-range selection: %+v", stored.LastShownList)
		}
	})

	t.Run("Nothing Understood", func(t *testing.T) {
		f := newFixture()
		out, err := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "こんにちは"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Reply != msgHelp {
			t.Errorf("got reply %q", out.Reply)
		}
	})

	t.Run("Records Interaction", func(t *testing.T) {
		f := newFixture()
		f.interp.interpretFn = command(model.Command{Action: model.ActionCreate, Type: model.EntityTask, Title: "掃除"})

		out, _ := f.uc.HandleMessage(ctx, sc, assistant.HandleMessageInput{Text: "タスク 掃除"})
		if out.InteractionID != "interaction-1" {
			t.Errorf("got interaction ID %q", out.InteractionID)
		}
		if len(f.recorder.interactions) != 1 {
			t.Fatalf("recorded %d interactions", len(f.recorder.interactions))
		}
		got := f.recorder.interactions[0]
		if got.UserID != "U1" || got.BotResponse != out.Reply {
			t.Errorf("recorded %+v", got)
		}
		if got.Reward < -1 || got.Reward > 1 {
			t.Errorf("reward %v out of bounds", got.Reward)
		}
	})
}

func TestHandleFollow(t *testing.T) {
	f := newFixture()
	msg, err := f.uc.HandleFollow(context.Background(), model.Scope{UserID: "U1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(msg, "ようこそ") {
		t.Errorf("got %q", msg)
	}
}
