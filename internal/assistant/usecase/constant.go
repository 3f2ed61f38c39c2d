package usecase

const (
	// eventListDays is the lookahead window for event listing and
	// keyword search.
	eventListDays = 90

	// maxListedEvents caps the rendered event list.
	maxListedEvents = 20

	// maxDisambiguation caps a rendered disambiguation list.
	maxDisambiguation = 10
)

const (
	msgWelcome = "🎉 ようこそ！Calendar & Tasks Bot\n\n" +
		"あなた専用のAI秘書です。自然な会話でカレンダーやタスクを管理できます。\n\n" +
		"【主な機能】\n" +
		"📅 予定の登録・変更・キャンセル\n" +
		"✅ タスクの管理と期限通知\n" +
		"⏰ 自動リマインダー通知\n\n" +
		"【使い方の例】\n" +
		"・明日14時 ミーティング\n" +
		"・タスク 牛乳を買う\n" +
		"・予定確認"

	msgHelp = "⚠️ メッセージを理解できませんでした。\n\n" +
		"もう一度、以下の形式で送信してください：\n\n" +
		"【予定の例】\n・明日14時 ミーティング\n・2月5日19時 飲み会\n\n" +
		"【タスクの例】\n・タスク 牛乳を買う\n・タスク 書類提出 期限明日"

	msgUnknownAction = "⚠️ 処理方法を理解できませんでした。"

	msgGenericError = "⚠️ 処理中にエラーが発生しました。\n\nもう一度お試しください。"

	msgNoTasks  = "✅ 未完了のタスクはありません"
	msgNoEvents = "📅 今後3ヶ月の予定はありません"

	msgTimeout = "⏰ 操作がタイムアウトしました。\n\n" +
		"もう一度「タスク一覧」と送信して、操作したい項目を選び直してください。"

	msgNeedCancelKeyword = "⚠️ キャンセルしたい予定のキーワードを教えてください。\n\n例: 「ミーティングをキャンセル」"

	msgNeedUpdateTime = "⚠️ 変更後の日時を教えてください。\n\n例: 「ミーティングを明日15時に変更」"

	taskListFooter  = "完了にするには番号を入力（例: 1完了）"
	selectionFooter = "操作したい項目の番号を送信してください（例: 1キャンセル）"
)
