package types

const (
	// ContextCallerKey holds the *authz.Caller set by the auth middleware.
	ContextCallerKey = "caller"

	// ContextRequestIDKey holds the id assigned by the request logger.
	ContextRequestIDKey = "request_id"

	RequestIDHeader = "X-Request-ID"
)
