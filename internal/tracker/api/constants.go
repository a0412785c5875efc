package api

const (
	RoutePath           = "location/"
	VehicleLocationPath = "vehicle-location"

	// Polls are never retried, the next tick is the retry
	MaxRetries = 0
)
