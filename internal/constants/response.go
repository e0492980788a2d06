package constants

// Standard Response Field Keys
const (
	ResponseFieldSuccess   = "success"
	ResponseFieldMessage   = "message"
	ResponseFieldDetails   = "details"
	ResponseFieldData      = "data"
	ResponseFieldUser      = "user"
	ResponseFieldLoggedOut = "loggedOut"
)

// Response Format Functions
func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldSuccess: false,
		ResponseFieldMessage: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldSuccess: true,
		ResponseFieldMessage: message,
	}
}

func BuildDataResponse(message string, data any) map[string]any {
	response := BuildSuccessResponse(message)
	response[ResponseFieldData] = data
	return response
}

func BuildUserResponse(message string, user any) map[string]any {
	response := BuildSuccessResponse(message)
	response[ResponseFieldUser] = user
	return response
}

// BuildForcedLogoutResponse tells the client its session is gone and it must log in again.
func BuildForcedLogoutResponse(message string) map[string]any {
	response := BuildErrorResponse(message, nil)
	response[ResponseFieldLoggedOut] = true
	return response
}
