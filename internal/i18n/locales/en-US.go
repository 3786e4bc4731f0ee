package locales

// MessagesEnUS holds English (US) API messages.
var MessagesEnUS = map[string]string{
	"common.success": "Success",

	"auth.login_success":      "Login successful",
	"auth.invalid_credential": "Invalid email or password",

	"validation.app_id_required":     "App ID is required",
	"validation.invalid_app_id":      "Invalid app ID",
	"validation.key_id_required":     "Key ID is required",
	"validation.locale_id_required":  "Locale ID is required",
	"validation.value_required":      "Translation value is required",
	"validation.url_required":        "URL is required",
	"validation.invalid_policy":      "Invalid translation policy",
	"validation.targets_required":    "At least one target locale is required",
	"validation.same_locale":         "Source and target locales must differ",
	"validation.invalid_locale_code": "Invalid locale code",

	"app.created": "App created successfully",
	"app.updated": "App updated successfully",
	"app.deleted": "App deleted successfully",

	"locale.added":   "Locale added to app",
	"locale.updated": "Locale settings updated",
	"locale.removed": "Locale removed from app",
	"locale.copied":  "Copied {{.Count}} translations",

	"key.created": "Translation key created",
	"key.updated": "Translation key updated",
	"key.deleted": "Translation key deleted",

	"translation.saved":    "Translation saved",
	"translation.deferred": "Change submitted for review",

	"review.submitted": "Review request submitted",
	"review.approved":  "Review approved",
	"review.rejected":  "Review rejected",
	"review.cancelled": "Review cancelled",

	"translate.completed": "Translation run completed",

	"import.completed": "Import completed",
	"scrape.started":   "Scrape job started",

	"task.get_status_failed": "Failed to get task status",
}
