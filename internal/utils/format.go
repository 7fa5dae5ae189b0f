package utils

import (
	"fmt"
	"time"
)

// ETAIndeterminate is shown when the driver is effectively stationary and no
// meaningful arrival time can be computed
const ETAIndeterminate = "--"

// FormatETA renders a duration the way the tracking screen shows it:
// "<1m", "2m", "1h5m".
func FormatETA(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return "<1m"
	}

	minutes := int64(d.Round(time.Minute) / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	rem := minutes % 60
	if rem == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, rem)
}

// FormatDistance renders a distance in meters as "850m" or "1.2km"
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0fm", meters)
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}
