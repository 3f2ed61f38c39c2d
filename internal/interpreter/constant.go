package interpreter

import "time"

// Retry policy for the Gemini call. Delay doubles per attempt (1s, 2s).
const (
	MaxAttempts    = 3
	BaseRetryDelay = 1000 * time.Millisecond
)

// Generation settings. Low temperature keeps the JSON output stable.
const (
	PromptTemperature = 0.2
	PromptMaxTokens   = 1024
)

// Log prefixes
const (
	logPrefixInterpret = "internal.interpreter.Interpret"
)

// promptContextSection wraps the previous bot reply when one exists.
const promptContextSection = `【直前のボット返信（文脈）】
%s

`

// promptTemplate is the rule document sent to Gemini. Slots: today's
// date, the optional context section, the raw user text.
const promptTemplate = `以下のテキストから情報を抽出してください。
今日は%sです。
%sユーザーの入力: "%s"

以下のJSON形式で返してください（JSONのみ、説明不要）：
{
  "action": "create" / "list" / "cancel" / "update" / "complete",
  "type": "event" または "task",
  "keyword": "検索キーワード（list/cancel/update/completeの場合）",
  "targetNumber": 数字（単一番号指定の場合、例: 3）,
  "targetNumbers": [数字の配列]（複数番号指定の場合、例: [5, 6, 7]）,
  "date": "YYYY-MM-DD",
  "startTime": "HH:MM" (予定の場合のみ),
  "endTime": "HH:MM" (予定の場合のみ),
  "title": "タイトル",
  "location": "場所（あれば）",
  "url": "URL（あれば）",
  "listName": "タスクリスト名（タスクの場合、あれば）",
  "starred": true/false (タスクの場合のみ、重要度判定)
}

重要な操作判定ルール：

**文脈を考慮した判定（最優先）:**
- 直前のボット返信に「一覧」「番号を入力」「番号を送信」などがある場合：
  - ユーザーが数字だけ入力 → その一覧からの選択と判断
  - 「キャンセル」「変更」「完了」に関する一覧なら、対応するactionとtargetNumberを設定
  - 例: 文脈「予定をキャンセル...1. 会議...番号を送信」+ 入力「2」→ action: "cancel", targetNumber: 2
  - 例: 文脈「タスク一覧...1. 牛乳...」+ 入力「1完了」→ action: "complete", targetNumber: 1
  - 例: 文脈「どの予定を変更...」+ 入力「3」→ action: "update", targetNumber: 3

**action の判定:**
- **最優先**: 「タスク」キーワード + 新規作成の内容がある場合は "create" にする
- "complete": タスクを完了/終了/終わり/済み/できた/やった にする場合
  - 例: 「3完了」→ action: "complete", type: "task", targetNumber: 3
  - 例: 「5,6,7完了」→ action: "complete", type: "task", targetNumbers: [5, 6, 7]
  - 例: 「牛乳買った完了」→ action: "complete", type: "task", keyword: "牛乳買った"
  - 例: 「掃除できた」→ action: "complete", type: "task", keyword: "掃除"
- "list": 「予定一覧」「今日の予定」「明日の予定」「今週の予定」「タスク一覧」などの表現
- "cancel": **既存の予定/タスクを削除/キャンセルする場合**
  - 例: 「ミーティングをキャンセル」→ action: "cancel", keyword: "ミーティング"
  - 例: 「16キャンセル」→ action: "cancel", type: "event", targetNumber: 16
  - 例: 「3番削除」→ action: "cancel", targetNumber: 3（typeは文脈で判断）
- "update": 「変更」「時間変更」「〜に変更」「延期」「前倒し」などの表現
  - 例: 「変更」→ action: "update", keyword: null（予定一覧を表示）
  - 例: 「3変更」→ action: "update", targetNumber: 3
  - 例: 「ミーティングを16時に変更」→ action: "update", keyword: "ミーティング", startTime: "16:00"
- "create": 上記以外の新規登録

**タスク/予定の判定（actionがcreateの場合のみ）:**
- タスク: 「タスク」キーワードが**明示的に含まれている**場合のみ
  例: 「タスク 牛乳を買う」「タスク レポート提出 期限2月10日」
  **重要**: タイトルに「キャンセル」「削除」「変更」が含まれていても、「タスク」があればaction="create"
- 予定: 上記以外はすべて予定として扱う
  - 時刻がある場合: 通常の予定
  - 時刻がない場合: 終日予定として登録（例: 「明日 会議」→ 終日予定）

**タスクの重要度判定（starredフィールド、タスクの場合のみ）:**
- 以下の条件に該当する場合、starred: true を設定
  1. タイトルに「★」「⭐」「重要」「緊急」「必須」が含まれる
  2. 「〜しないと」「絶対」「必ず」「忘れずに」などの強い表現がある
  3. 期限が「今日」「明日」で緊急性が高い
  4. ビジネス上重要なイベント（「プレゼン」「納品」「締切」「提出」「発表」など）
  5. 金銭や契約に関わる（「支払い」「請求」「契約」「振込」など）
- 上記以外は starred: false

**キーワード抽出（list/cancel/update/completeの場合）:**
- 予定のタイトルや識別できる単語を抽出し、日付や時刻の表現は除外する
- 例: 「2月2日15時のデバックテスト」→ keyword: "デバックテスト"
- 「キャンセル」「削除」「変更」「予定」などのアクションワードのみの場合はkeywordをnullにする
  - 例: 「キャンセル」→ keyword: null（対象の予定名がない）

**日付の抽出:**
- 「今日」「明日」「明後日」「来週月曜」などは具体的な日付に変換
- 「2月2日」「2/2」なども正しく解釈
- 日付が指定されていない場合：予定は今日の日付、タスクは null（期限なし）

**updateアクションの重要なルール:**
- 「〜時を〜時に変更」の場合、startTimeには**新しい時刻のみ**を設定すること
- endTimeはstartTimeの1時間後を設定すること（デフォルト）
- 例: 「15時を19時に変更」→ startTime: "19:00", endTime: "20:00"

その他の注意事項：
- 予定の場合：終了時刻が指定されていない場合は、開始時刻の1時間後を設定
- タスクの場合：dateは期限日（なければnull）、startTimeとendTimeは常にnull
- 時刻は24時間形式で返すこと（例：14:00、22:30）
- 場所・URL・listNameが明示されていない場合はnull
`
