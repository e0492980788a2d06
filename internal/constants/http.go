package constants

// HTTP Header Names
const (
	HeaderContentType    = "Content-Type"
	HeaderUserAgent      = "User-Agent"
	HeaderReferer        = "Referer"
	HeaderXRequestID     = "X-Request-ID"
	HeaderXForwardedFor  = "X-Forwarded-For"
	HeaderXRealIP        = "X-Real-IP"
	HeaderCFConnectingIP = "CF-Connecting-IP"
	HeaderCFIPCountry    = "CF-IPCountry"
)

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
)

// Common HTTP Error Messages
const (
	MsgUnauthorized       = "Unauthorized access"
	MsgBadRequest         = "Invalid request"
	MsgInternalError      = "Internal server error"
	MsgServiceUnavailable = "Service temporarily unavailable"
	MsgTimeout            = "Request timeout"
	MsgValidationFailed   = "Validation failed"
	MsgRouteNotFound      = "Route not found"
)
