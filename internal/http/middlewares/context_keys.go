package middlewares

const (
	CtxRequestID    = "request_id"
	CtxSessionID    = "session.id"
	CtxSessionStore = "session.store"
)
