package crmi

import (
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/fhir_dto"
	"strings"
)

func ArtifactUsage(artifact fhir_dto.Artifact) string {
	if extension := findExtension(artifact, constvars.CrmiExtArtifactUsage); extension != nil {
		return extension.ValueMarkdown
	}
	return ""
}

// SetArtifactUsage replaces the artifact-usage extension; blank removes it.
func SetArtifactUsage(artifact fhir_dto.Artifact, usage string) {
	replaceExtension(artifact, constvars.CrmiExtArtifactUsage, usage, func(value string) fhir_dto.Extension {
		return fhir_dto.Extension{Url: constvars.CrmiExtArtifactUsage, ValueMarkdown: value}
	})
}

func CopyrightLabel(artifact fhir_dto.Artifact) string {
	if extension := findExtension(artifact, constvars.CrmiExtCopyrightLabel); extension != nil {
		return extension.ValueString
	}
	return ""
}

// SetCopyrightLabel replaces the copyright-label extension; blank removes it.
func SetCopyrightLabel(artifact fhir_dto.Artifact, label string) {
	replaceExtension(artifact, constvars.CrmiExtCopyrightLabel, label, func(value string) fhir_dto.Extension {
		return fhir_dto.Extension{Url: constvars.CrmiExtCopyrightLabel, ValueString: value}
	})
}

func findExtension(artifact fhir_dto.Artifact, url string) *fhir_dto.Extension {
	extensions := artifact.GetExtensions()
	for i := range extensions {
		if extensions[i].Url == url {
			return &extensions[i]
		}
	}
	return nil
}

func replaceExtension(artifact fhir_dto.Artifact, url, value string, build func(string) fhir_dto.Extension) {
	kept := make([]fhir_dto.Extension, 0, len(artifact.GetExtensions())+1)
	for _, extension := range artifact.GetExtensions() {
		if extension.Url != url {
			kept = append(kept, extension)
		}
	}
	if strings.TrimSpace(value) != "" {
		kept = append(kept, build(value))
	}
	artifact.SetExtensions(kept)
}
