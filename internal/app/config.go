package app

import "time"

// Constants
const (
	// Error messages
	ErrInvalidDateFormat = "Invalid date format"
	ErrInvalidIndex      = "Invalid index"
	ErrInvalidFormat     = "Invalid format"
	ErrInvalidBody       = "Invalid request body"
	ErrFailedToSave      = "Failed to save data"
	ErrFailedToLoad      = "Failed to load data"
	ErrNoSyncData        = "No data was sent"

	// ICS constants
	ICSProductID = "-//Winterberg//Holiday Planner//KO"
	ICSTimezone  = "Asia/Seoul"
	ICSDomain    = "holiday-planner.local"

	// Export formats
	FormatICS  = "ics"
	FormatCSV  = "csv"
	FormatJSON = "json"

	// Request ID header
	HeaderRequestID = "X-Request-ID"
)

// HTTP server timeouts
const (
	ReadTimeout     = 15 * time.Second
	WriteTimeout    = 30 * time.Second
	IdleTimeout     = 60 * time.Second
	ShutdownTimeout = 10 * time.Second
)
