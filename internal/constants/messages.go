package constants

// Authentication messages
const (
	MsgUserRegistered      = "User registered successfully"
	MsgUserExists          = "User already exists"
	MsgLoginSuccessful     = "Login successful"
	MsgInvalidCredentials  = "Invalid email or password"
	MsgLoggedOut           = "Logged out successfully"
	MsgNoToken             = "Access denied. No token provided."
	MsgTokenExpired        = "Token expired"
	MsgInvalidToken        = "Invalid token"
	MsgRefreshTokenMissing = "Refresh token missing"
	MsgRefreshTokenInvalid = "Refresh token invalid or expired"
	MsgTokenRefreshed      = "Access token refreshed"
	MsgNoRefreshToken      = "No refresh token provided"
	MsgRefreshSessionGone  = "Invalid or expired refresh token"
)

// Link messages
const (
	MsgURLRequired        = "URL is required"
	MsgInvalidURL         = "Invalid URL format"
	MsgInvalidCustomURL   = "Custom URL may only contain letters, digits, '-' and '_' (3-32 characters)"
	MsgReservedCustomURL  = "Custom URL is reserved"
	MsgCustomURLExists    = "Custom URL already exists"
	MsgDuplicateLink      = "You have already shorten this url"
	MsgURLShortened       = "Url shortened successfully"
	MsgURLNotFound        = "Url not found"
	MsgShortURLNotFound   = "Short URL not found"
	MsgURLDeleted         = "URL deleted successfully"
	MsgURLsFetched        = "URLs fetched successfully"
	MsgCodeSpaceExhausted = "Could not allocate a short code"
)
