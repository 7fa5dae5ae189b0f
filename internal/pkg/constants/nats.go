package constants

// NATS Subjects
const (
	// Rides service
	SubjectRideRequested = "ride.requested"
	SubjectRideAccepted  = "ride.accepted"
	SubjectRideRejected  = "ride.rejected"
	SubjectRidePickup    = "ride.pickup"
	SubjectRideCompleted = "ride.completed"

	// Notification service; suffixed with the recipient user id
	SubjectNotifyPush = "notify.push.%s"
)
