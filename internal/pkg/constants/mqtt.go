package constants

import "fmt"

// DefaultNamespace is the topic namespace used when none is configured
const DefaultNamespace = "unipool"

// TopicDriverLocation is the per-driver location topic:
// <namespace>/drivers/<driverID>/location. One logical channel per driver;
// passengers only need the driver's identity to subscribe.
const TopicDriverLocation = "%s/drivers/%s/location"

// QoSAtLeastOnce is the delivery guarantee requested for location samples
const QoSAtLeastOnce byte = 1

// DriverLocationTopic builds the location topic for a driver
func DriverLocationTopic(namespace, driverID string) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return fmt.Sprintf(TopicDriverLocation, namespace, driverID)
}
