package utils

import (
	"fmt"
	"strings"

	ua "github.com/mileusna/useragent"
)

// DeviceSummary condenses a User-Agent string into a short human-readable
// label recorded on the user document at login time.
func DeviceSummary(userAgent string) string {
	if userAgent == "" {
		return "Unknown Device"
	}

	parsed := ua.Parse(userAgent)

	browser := parsed.Name
	if browser == "" {
		browser = "Unknown Browser"
	}
	osName := parsed.OS
	if osName == "" {
		osName = "Unknown OS"
	}

	device := "Desktop"
	switch {
	case parsed.Mobile:
		device = "Mobile"
	case parsed.Tablet:
		device = "Tablet"
	case parsed.Bot:
		device = "Bot"
	}

	return strings.TrimSpace(fmt.Sprintf("%s on %s (%s)", browser, osName, device))
}
