package constants

// Log levels accepted by logger.WriteLog
const (
	LOG_LEVEL_INFO  = "INFO"
	LOG_LEVEL_WARN  = "WARN"
	LOG_LEVEL_ERROR = "ERROR"
	LOG_LEVEL_DEBUG = "DEBUG"
)

// Notification channels
const (
	CHANNEL_PUSH     = "push"
	CHANNEL_EMAIL    = "email"
	CHANNEL_SMS      = "sms"
	CHANNEL_WHATSAPP = "whatsapp"
)
