package globals

// Context keys
type ContextKey string

const SessionIDKey ContextKey = "sessionId"
const RequestIDKey ContextKey = "requestId"

// SessionCookie carries the shopper's session id; SessionHeader overrides it
// for API clients without cookie support.
const (
	SessionCookie  = "fc_session"
	SessionHeader  = "X-Session-ID"
	DefaultSession = "default"
)
