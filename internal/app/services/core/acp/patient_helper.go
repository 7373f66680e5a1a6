package acp

import (
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/pkg/constvars"
	"strings"

	"github.com/samply/golang-fhir-models/fhir-models/fhir"
)

// PatientName renders the first name entry as "given given family".
func PatientName(patient *fhir.Patient) string {
	if patient == nil || len(patient.Name) == 0 {
		return constvars.AcpPatientNameUnknown
	}

	name := patient.Name[0]
	family := ""
	if name.Family != nil {
		family = *name.Family
	}
	full := strings.TrimSpace(strings.Join(name.Given, " ") + " " + family)
	if full == "" {
		return constvars.AcpPatientNameUnknown
	}
	return full
}

// LegallyCapableInfo reads the legally-capable extension. Either value is nil when absent.
func LegallyCapableInfo(patient *fhir.Patient) (*bool, *string) {
	if patient == nil {
		return nil, nil
	}

	for _, extension := range patient.Extension {
		if extension.Url != constvars.AcpLegallyCapableExtUrl {
			continue
		}
		var (
			capable *bool
			comment *string
		)
		for _, sub := range extension.Extension {
			switch sub.Url {
			case constvars.AcpLegallyCapableUrl:
				capable = sub.ValueBoolean
			case constvars.AcpLegallyCapableCommentUrl:
				comment = sub.ValueString
			}
		}
		return capable, comment
	}
	return nil, nil
}

func LegallyCapableText(patient *fhir.Patient) string {
	capable, _ := LegallyCapableInfo(patient)
	switch {
	case capable == nil:
		return constvars.AcpLegallyCapableUnknown
	case *capable:
		return constvars.AcpLegallyCapableText
	default:
		return constvars.AcpNotLegallyCapableText
	}
}

func LegallyCapableComment(patient *fhir.Patient) string {
	_, comment := LegallyCapableInfo(patient)
	if comment == nil {
		return ""
	}
	return *comment
}

func BuildPatientSummary(patient *fhir.Patient) *models.PatientSummary {
	capable, _ := LegallyCapableInfo(patient)
	return &models.PatientSummary{
		Name:                  PatientName(patient),
		LegallyCapable:        capable,
		LegallyCapableText:    LegallyCapableText(patient),
		LegallyCapableComment: LegallyCapableComment(patient),
	}
}
