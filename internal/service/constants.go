package service

const (
	// Pagination limits
	TrendActivitiesLimit = 60
	UpcomingEventsLimit  = 5

	// Health charts look this many days back from today
	HealthLookbackDays = 1460

	// Unit conversions
	MetersPerKm      = 1000.0
	SecondsPerMinute = 60.0
	SecondsPerHour   = 3600.0

	// Activities shorter than this never get a pace or speed point
	MinDistanceForPace = 10.0 // meters
)
