package locales

// MessagesJaJP holds Japanese API messages.
var MessagesJaJP = map[string]string{
	"common.success": "操作が成功しました",

	"auth.login_success":      "ログインしました",
	"auth.invalid_credential": "メールアドレスまたはパスワードが正しくありません",

	"validation.app_id_required":     "アプリ ID が必要です",
	"validation.invalid_app_id":      "無効なアプリ ID です",
	"validation.key_id_required":     "キー ID が必要です",
	"validation.locale_id_required":  "ロケール ID が必要です",
	"validation.value_required":      "翻訳内容は必須です",
	"validation.url_required":        "URL が必要です",
	"validation.invalid_policy":      "無効な翻訳ポリシーです",
	"validation.targets_required":    "ターゲットロケールが少なくとも 1 つ必要です",
	"validation.same_locale":         "ソースとターゲットのロケールは異なる必要があります",
	"validation.invalid_locale_code": "無効なロケールコードです",

	"app.created": "アプリを作成しました",
	"app.updated": "アプリを更新しました",
	"app.deleted": "アプリを削除しました",

	"locale.added":   "ロケールを追加しました",
	"locale.updated": "ロケール設定を更新しました",
	"locale.removed": "ロケールを削除しました",
	"locale.copied":  "{{.Count}} 件の翻訳をコピーしました",

	"key.created": "翻訳キーを作成しました",
	"key.updated": "翻訳キーを更新しました",
	"key.deleted": "翻訳キーを削除しました",

	"translation.saved":    "翻訳を保存しました",
	"translation.deferred": "変更をレビューに送信しました",

	"review.submitted": "レビュー依頼を送信しました",
	"review.approved":  "レビューを承認しました",
	"review.rejected":  "レビューを却下しました",
	"review.cancelled": "レビューをキャンセルしました",

	"translate.completed": "翻訳処理が完了しました",

	"import.completed": "インポートが完了しました",
	"scrape.started":   "スクレイプジョブを開始しました",

	"task.get_status_failed": "タスク状態の取得に失敗しました",
}
