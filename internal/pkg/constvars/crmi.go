package constvars

const (
	CrmiExtArtifactUsage  = "http://hl7.org/fhir/StructureDefinition/artifact-usage"
	CrmiExtCopyrightLabel = "http://hl7.org/fhir/StructureDefinition/artifact-copyrightLabel"
)

const (
	CrmiStatusDraft   = "draft"
	CrmiStatusActive  = "active"
	CrmiStatusRetired = "retired"
	CrmiStatusUnknown = "unknown"
)

const (
	CrmiUnnamedArtifact = "unnamed"

	CrmiActiveToDraftMessage    = "An active artifact cannot transition back to draft. Create a new version instead."
	CrmiRetiredToDraftMessage   = "A retired artifact cannot transition back to draft. Create a new version instead."
	CrmiRetiredToActiveMessage  = "A retired artifact cannot transition back to active. Create a new version instead."
	CrmiUnknownTransitionFormat = "Unknown status transition from %s to %s"
)

const (
	// CrmiValueSetBindingsKey holds every binding as one JSON object keyed by element path.
	CrmiValueSetBindingsKey = "crmi_ValueSetBindings"

	CrmiConceptPathSeparator = " > "
)
