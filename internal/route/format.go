package route

import "fmt"

// FormatDuration renders minutes as "45min", "2h" or "2h 30min".
func FormatDuration(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dmin", mins)
	case mins == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dmin", hours, mins)
	}
}

func FormatDistance(km float64) string {
	return fmt.Sprintf("%.1f km", km)
}

func FormatElevation(m int) string {
	return fmt.Sprintf("%d m", m)
}
