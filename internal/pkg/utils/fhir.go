package utils

import (
	"net/url"
	"strings"
	"time"
)

var fhirDateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseFhirDateTime accepts the partial precisions FHIR allows for dateTime and instant.
func ParseFhirDateTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range fhirDateTimeLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// SplitReference returns the type and id of a reference, e.g. "Encounter/E1".
// A trailing "/_history/{vid}" is ignored.
func SplitReference(reference string) (string, string, bool) {
	if idx := strings.Index(reference, "/_history/"); idx >= 0 {
		reference = reference[:idx]
	}
	parts := strings.Split(reference, "/")
	if len(parts) < 2 {
		return "", "", false
	}
	resourceType := parts[len(parts)-2]
	resourceID := parts[len(parts)-1]
	if resourceType == "" || resourceID == "" {
		return "", "", false
	}
	return resourceType, resourceID, true
}

// ServerSlug turns a server url into a cache key segment:
// https://server.fire.ly -> server_fire_ly, http://hapi.fhir.org/baseR4 -> hapi_fhir_org_baseR4.
func ServerSlug(serverURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(serverURL))
	if err != nil {
		return "", err
	}
	hostSlug := strings.ReplaceAll(parsed.Hostname(), ".", "_")
	pathSlug := strings.ReplaceAll(strings.Trim(parsed.Path, "/"), "/", "_")
	return strings.TrimRight(hostSlug+"_"+pathSlug, "_"), nil
}
