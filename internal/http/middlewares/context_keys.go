package middlewares

const (
	CtxRequestID = "request_id"
	CtxUserID    = "session.userID"
	CtxEmail     = "session.email"
)
