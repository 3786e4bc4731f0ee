package locales

// MessagesZhCN holds Simplified Chinese API messages.
var MessagesZhCN = map[string]string{
	"common.success": "操作成功",

	"auth.login_success":      "登录成功",
	"auth.invalid_credential": "邮箱或密码错误",

	"validation.app_id_required":     "缺少应用 ID",
	"validation.invalid_app_id":      "无效的应用 ID",
	"validation.key_id_required":     "缺少键 ID",
	"validation.locale_id_required":  "缺少语言 ID",
	"validation.value_required":      "翻译内容不能为空",
	"validation.url_required":        "缺少 URL",
	"validation.invalid_policy":      "无效的翻译策略",
	"validation.targets_required":    "至少需要一个目标语言",
	"validation.same_locale":         "源语言和目标语言不能相同",
	"validation.invalid_locale_code": "无效的语言代码",

	"app.created": "应用创建成功",
	"app.updated": "应用更新成功",
	"app.deleted": "应用删除成功",

	"locale.added":   "语言已添加到应用",
	"locale.updated": "语言设置已更新",
	"locale.removed": "语言已从应用移除",
	"locale.copied":  "已复制 {{.Count}} 条翻译",

	"key.created": "翻译键创建成功",
	"key.updated": "翻译键更新成功",
	"key.deleted": "翻译键删除成功",

	"translation.saved":    "翻译已保存",
	"translation.deferred": "变更已提交审核",

	"review.submitted": "审核请求已提交",
	"review.approved":  "审核已通过",
	"review.rejected":  "审核已拒绝",
	"review.cancelled": "审核已取消",

	"translate.completed": "翻译任务完成",

	"import.completed": "导入完成",
	"scrape.started":   "抓取任务已启动",

	"task.get_status_failed": "获取任务状态失败",
}
