package social

import (
	"fmt"
	"time"
)

// RelativeTime renders how long ago t was, relative to now.
func RelativeTime(now, t time.Time) string {
	mins := int(now.Sub(t) / time.Minute)
	hours := mins / 60
	days := hours / 24

	switch {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	default:
		return fmt.Sprintf("%dd ago", days)
	}
}
