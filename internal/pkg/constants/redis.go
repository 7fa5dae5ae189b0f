package constants

// Redis key formats
const (
	// Tracking service
	KeyDriverLocation = "driver:location:%s" // Format: driver:location:{driver_id}
	KeyDriverGeo      = "drivers:geo"        // Geo set of all live driver positions
)

// Redis hash fields
const (
	FieldLatitude  = "lat"
	FieldLongitude = "lng"
	FieldTimestamp = "ts"
	FieldSpeed     = "speed"
	FieldBearing   = "bearing"
	FieldGeohash   = "cell"
)
