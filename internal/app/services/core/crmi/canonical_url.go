package crmi

import (
	"fauxhr-service/internal/pkg/constvars"
	"fmt"
	"strings"
	"unicode"
)

// SanitizeName lower-cases name, turns spaces and underscores into dashes and
// drops everything that is not a letter, digit or dash.
func SanitizeName(name string) string {
	if strings.TrimSpace(name) == "" {
		return constvars.CrmiUnnamedArtifact
	}

	var builder strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r == ' ' || r == '_':
			builder.WriteRune('-')
		case r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r):
			builder.WriteRune(r)
		}
	}
	if builder.Len() == 0 {
		return constvars.CrmiUnnamedArtifact
	}
	return builder.String()
}

func CanonicalURL(baseURL, resourceType, name string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), resourceType, SanitizeName(name))
}
