package reward

import (
	"regexp"
	"time"
)

const (
	EmptyResponseReward = -0.5

	successWeight = 0.4
	errorWeight   = 0.3
	lengthWeight  = 0.2
	emojiWeight   = 0.1

	minGoodLength = 10
	maxGoodLength = 200

	defaultRequestTimeout = 5 * time.Second

	recordEndpoint = "/api/record"
	rewardEndpoint = "/api/reward"
	healthEndpoint = "/health"
)

var successKeywords = []string{"完了", "登録", "作成", "設定", "追加", "削除", "✅", "📅"}

var errorKeywords = []string{"エラー", "失敗", "できません", "見つかりません"}

// taskTypePatterns classifies a user message for telemetry grouping.
// First pattern group to match wins.
var taskTypePatterns = []struct {
	taskType string
	patterns []*regexp.Regexp
}{
	{
		taskType: "calendar_create",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`予定.*(入れ|登録|追加|作成)`),
			regexp.MustCompile(`(入れ|登録|追加|作成).*予定`),
			regexp.MustCompile(`スケジュール.*(入れ|登録|追加)`),
			regexp.MustCompile(`(明日|今日|来週|.*日).*(時|午前|午後)`),
		},
	},
	{
		taskType: "calendar_query",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`予定.*(教え|確認|見せ|表示)`),
			regexp.MustCompile(`(今日|明日|今週|来週).*予定`),
			regexp.MustCompile(`スケジュール.*(教え|確認)`),
		},
	},
	{
		taskType: "task_create",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`タスク.*(追加|作成|登録)`),
			regexp.MustCompile(`(買い物|やること).*(追加|リスト)`),
			regexp.MustCompile(`(追加|登録).*タスク`),
			regexp.MustCompile(`(?i)TODO`),
		},
	},
	{
		taskType: "task_complete",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`タスク.*(完了|終了|済み)`),
			regexp.MustCompile(`(完了|終わっ|済み)`),
		},
	},
	{
		taskType: "reminder_set",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`リマインダー.*(設定|追加)`),
			regexp.MustCompile(`通知.*(設定|追加)`),
			regexp.MustCompile(`(時間|分).*(前|後).*(通知|教え)`),
		},
	},
}

const taskTypeGeneral = "general_query"
