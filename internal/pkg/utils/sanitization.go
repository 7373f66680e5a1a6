package utils

import "strings"

// SanitizeServerURL trims whitespace and trailing slashes so server urls compare cleanly.
func SanitizeServerURL(serverURL string) string {
	return strings.TrimRight(strings.TrimSpace(serverURL), "/")
}

func SanitizeIdentifier(system, value string) (string, string) {
	return strings.TrimSpace(system), strings.TrimSpace(value)
}
