package model

import "strings"

// ServiceColors is a palette for orders whose service doesn't come from a template.
// Colors cycle through this list based on how many distinct services exist.
var ServiceColors = []string{
	"#6b7280", // gray
	"#3b82f6", // blue
	"#f59e0b", // amber
	"#10b981", // green
	"#9333ea", // purple
	"#ec4899", // pink
	"#ef4444", // red
	"#06b6d4", // cyan
}

// DefaultServiceIcon is used for free-form services.
const DefaultServiceIcon = "briefcase"

// NextServiceColor returns the palette color for the given service count.
func NextServiceColor(serviceCount int) string {
	if serviceCount < 0 {
		serviceCount = -serviceCount
	}
	return ServiceColors[serviceCount%len(ServiceColors)]
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
