package constants

// Session and context keys
const (
	SessionCookieName  = "taskman_session"
	SessionKeyUserID   = "user_id"
	SessionKeyUserName = "user_name"
	SessionKeyFlash    = "flash"
	ContextKeyUserID   = "user_id"
)

// Password policy
const (
	MinPasswordLength = 8
	MaxPasswordLength = 64
)

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)
