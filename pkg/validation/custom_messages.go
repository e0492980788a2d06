package validation

// CustomMessage returns per-tag overrides for a JSON field, or nil.
func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"email": {
			"required": "Email is required",
			"email":    "Email must be a valid email address",
		},
		"password": {
			"required": "Password is required",
			"min":      "Password must be at least 6 characters",
			"max":      "Password must be at most 72 characters",
		},
		"name": {
			"required": "Name is required",
		},
		"phoneNumber": {
			"required": "Phone number is required",
		},
		"longUrl": {
			"required": "URL is required",
		},
	}
	return customValidationMessages[field]
}
