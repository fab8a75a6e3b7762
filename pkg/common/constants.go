package common

const (
	HeaderContentType     = "Content-Type"
	HeaderContentLength   = "Content-Length"
	ContentTypePlain      = "text/plain"
	ContentTypeHTML       = "text/html; charset=utf-8"
	ContentTypeJSON       = "application/json"
	ContentTypeURLEncoded = "application/x-www-form-urlencoded"
)

const (
	ConfigStage           = "STAGE"
	ConfigVerbose         = "VERBOSE"
	ConfigPrivateKey      = "RECAPTCHA_PRIVATE_KEY"
	ConfigVerifyURL       = "RECAPTCHA_VERIFY_URL"
	ConfigVerifyTimeout   = "RECAPTCHA_TIMEOUT"
	ConfigHost            = "RC_HOST"
	ConfigPort            = "RC_PORT"
	ConfigRateLimitHeader = "RC_RATE_LIMIT_HEADER"
	ConfigCorsOrigins     = "RC_CORS_ORIGINS"
	ConfigHealthCheck     = "HEALTHCHECK"
)
