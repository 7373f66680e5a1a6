package cache

import (
	"fauxhr-service/internal/pkg/utils"
	"fmt"
	"strings"
)

// CanonicalKey builds "{serverSlug}_{resourceType}_{id}".
func CanonicalKey(serverURL, resourceType, resourceID string) (string, error) {
	slug, err := utils.ServerSlug(serverURL)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s_%s", slug, resourceType, resourceID), nil
}

// LegacyKeyPrefix is the "{resourceType}-{id}" head of the older dated key scheme.
func LegacyKeyPrefix(resourceType, resourceID string) string {
	return resourceType + "-" + resourceID
}

// HasResourceKey reports whether keys already hold resourceType/resourceID, under
// either the canonical key for serverURL or any legacy dated key.
func HasResourceKey(keys []string, serverURL, resourceType, resourceID string) bool {
	canonical, err := CanonicalKey(serverURL, resourceType, resourceID)
	if err != nil {
		canonical = ""
	}
	legacy := LegacyKeyPrefix(resourceType, resourceID)
	for _, key := range keys {
		if key == canonical || key == legacy || strings.HasPrefix(key, legacy+"-") {
			return true
		}
	}
	return false
}
