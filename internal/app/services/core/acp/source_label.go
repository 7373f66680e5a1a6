package acp

import (
	"fauxhr-service/internal/pkg/constvars"
	"net/url"
	"strings"
)

// SourceLabel shortens meta.source for display: the part after the last "|",
// or the host of an absolute url.
func SourceLabel(source string) string {
	if strings.TrimSpace(source) == "" {
		return constvars.AcpDisplayUnknown
	}
	if strings.Contains(source, "|") {
		parts := strings.Split(source, "|")
		return strings.TrimSpace(parts[len(parts)-1])
	}
	if parsed, err := url.Parse(source); err == nil && parsed.IsAbs() && parsed.Hostname() != "" {
		return parsed.Hostname()
	}
	return source
}
