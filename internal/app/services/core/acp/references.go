package acp

import (
	"fauxhr-service/internal/app/models"
	"strings"

	"github.com/samply/golang-fhir-models/fhir-models/fhir"
)

// NormalizeReference makes references on serverURL relative and drops
// absolute references to any other server.
func NormalizeReference(reference, serverURL string) (string, bool) {
	if reference == "" {
		return "", false
	}

	normalized := reference
	server := strings.TrimRight(serverURL, "/")
	switch {
	case server != "" && strings.HasPrefix(reference, server+"/"):
		normalized = strings.TrimLeft(reference[len(server):], "/")
	case strings.HasPrefix(reference, "http://"), strings.HasPrefix(reference, "https://"):
		return "", false
	}

	if normalized == "" {
		return "", false
	}
	return normalized, true
}

// ExtractReferences lists the outbound references the resolver follows for
// each kind, normalized against serverURL. Other kinds have none.
func ExtractReferences(resource *models.ClinicalResource, serverURL string) []string {
	var raw []*fhir.Reference
	switch resource.Kind {
	case models.KindProcedure:
		if resource.Procedure != nil {
			raw = append(raw, resource.Procedure.Encounter)
			for i := range resource.Procedure.Performer {
				raw = append(raw, &resource.Procedure.Performer[i].Actor)
			}
		}
	case models.KindEncounter:
		if resource.Encounter != nil {
			for _, participant := range resource.Encounter.Participant {
				raw = append(raw, participant.Individual)
			}
			raw = append(raw, resource.Encounter.Subject)
		}
	case models.KindConsent:
		if resource.Consent != nil && resource.Consent.Provision != nil {
			raw = append(raw, provisionActors(*resource.Consent.Provision)...)
		}
	case models.KindObservation:
		if resource.Observation != nil {
			for i := range resource.Observation.Performer {
				raw = append(raw, &resource.Observation.Performer[i])
			}
		}
	case models.KindPractitionerRole:
		if resource.PractitionerRole != nil {
			raw = append(raw, resource.PractitionerRole.Practitioner, resource.PractitionerRole.Organization)
		}
	}

	var references []string
	for _, reference := range raw {
		if reference == nil || reference.Reference == nil {
			continue
		}
		if normalized, ok := NormalizeReference(*reference.Reference, serverURL); ok {
			references = append(references, normalized)
		}
	}
	return references
}

func provisionActors(provision fhir.ConsentProvision) []*fhir.Reference {
	var actors []*fhir.Reference
	for i := range provision.Actor {
		actors = append(actors, &provision.Actor[i].Reference)
	}
	for _, nested := range provision.Provision {
		actors = append(actors, provisionActors(nested)...)
	}
	return actors
}
