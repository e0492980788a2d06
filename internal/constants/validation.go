package constants

// Field Length Limits
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
	MaxNameLength     = 100
	MaxEmailLength    = 255
	MaxPhoneLength    = 20
	MaxURLLength      = 2048
	MinCustomURL      = 3
	MaxCustomURL      = 32
)

// Validation Patterns
const (
	// DestinationURLPattern is matched case-insensitively after the scheme is ensured.
	DestinationURLPattern = `^(https?://)([\w-]+\.)+[\w-]{2,}(/[\w\-._~:/?#[\]@!$&'()*+,;=%]*)?(\?.*)?(#.*)?$`
	CustomURLPattern      = `^[A-Za-z0-9_-]+$`
)

// ReservedShortCodes collide with sibling routes under /api/user.
var ReservedShortCodes = []string{"urls", "shorten", "logout"}
