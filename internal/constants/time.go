package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// ICSDateTimeFormat is the local wall-clock format used in calendar exports
	ICSDateTimeFormat = "20060102T150405"
)
