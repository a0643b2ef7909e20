package calendar

import "errors"

var (
	// ErrInvalidTimezone means the zone name is not in the tz database.
	// It fails the whole call.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidSessionTimestamp drops a single session whose start or end
	// cannot be parsed, or which ends before it starts.
	ErrInvalidSessionTimestamp = errors.New("invalid session timestamp")

	// ErrSessionOutsideWindow drops a session whose civil start date falls
	// outside the requested week. Informational.
	ErrSessionOutsideWindow = errors.New("session outside window")
)
