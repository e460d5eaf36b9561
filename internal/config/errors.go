package config

const (
	// Storage errors
	ErrInitializeStorageFmt = "Failed to initialize storage: %v"
	ErrLoadResume           = "Stored resume is unreadable, using default"
	ErrLoadMessages         = "Stored messages are unreadable"
	ErrMessageNotFound      = "Message not found"
	ErrStoreMessage         = "Failed to save message"

	// Backend errors
	ErrBackendUnavailable = "Backend request failed"
	ErrBackendRejected    = "Request failed. Please try again."
	ErrDecodeResponse     = "Unexpected response from backend"

	// Session errors
	ErrUnauthorized      = "Unauthorized"
	ErrInvalidCredential = "Invalid email or password"
	ErrSessionNotFound   = "Edit session not found"
	ErrValidationFailed  = "Please fix the highlighted fields"
	ErrInvalidBody       = "Invalid request body"
	ErrUnknownTheme      = "Unknown syntax theme"
	ErrUnknownFormat     = "Unknown format"

	// Config errors
	ErrWriteConfigContentFmt = "Failed to write config content: %v"
)
