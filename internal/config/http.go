package config

const (
	HCType          = "Content-Type"
	HCacheControl   = "Cache-Control"
	HAuthorization  = "Authorization"
	HContentOptions = "X-Content-Type-Options"

	CTypeJSON = "application/json"
	CTypeText = "text/plain; charset=utf-8"
	CTypeSSE  = "text/event-stream"
)

const (
	CookieSession = "folio-session"
)

const (
	EnvAPIBaseURL = "FOLIO_API_BASE_URL"
	EnvAPIToken   = "FOLIO_API_TOKEN"
	EnvRedisAddrs = "FOLIO_REDIS_ADDRS"
	EnvLogLevel   = "FOLIO_LOG_LEVEL"
	EnvPort       = "PORT"

	// EnvInsecureCookies drops the Secure flag from the session cookie for
	// local development over plain HTTP.
	EnvInsecureCookies = "FOLIO_INSECURE_COOKIES"
)
