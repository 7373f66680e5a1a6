package acp

import (
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/pkg/constvars"
	"fmt"
	"strings"
)

// BuildCatalog returns the fixed ACP searches for one patient, in display order.
func BuildCatalog(patientID string) []*models.AcpQuery {
	patient := fmt.Sprintf("Patient/%s", patientID)

	return []*models.AcpQuery{
		models.NewAcpQuery(
			"ACP Procedures and Encounters",
			"ACP procedures with the encounters they took place in",
			constvars.ResourceProcedure,
			fmt.Sprintf("patient=%s&code=%s|%s&_include=Procedure:encounter",
				patient, constvars.SnomedSystem, constvars.AcpProcedureCode),
		),
		models.NewAcpQuery(
			"Treatment Directives",
			"Treatment consents and the actors involved",
			constvars.ResourceConsent,
			fmt.Sprintf("patient=%s&scope=%s|%s&category=%s|%s&_include=Consent:actor",
				patient, constvars.ConsentScopeSystem, constvars.AcpConsentScopeTreatment,
				constvars.SnomedSystem, constvars.AcpConsentCategoryTreatment),
		),
		models.NewAcpQuery(
			"Advance Directives",
			"Advance directive consents and the actors involved",
			constvars.ResourceConsent,
			fmt.Sprintf("patient=%s&scope=%s|%s&category=%s|%s&_include=Consent:actor",
				patient, constvars.ConsentScopeSystem, constvars.AcpConsentScopeAdr,
				constvars.ConsentCategorySystem, constvars.AcpConsentCategoryAcd),
		),
		models.NewAcpQuery(
			"Medical Policy Goals",
			"Goals describing the agreed medical policy",
			constvars.ResourceGoal,
			fmt.Sprintf("patient=%s&description=%s|%s",
				patient, constvars.SnomedSystem, strings.Join(constvars.AcpGoalCodes, ",")),
		),
		models.NewAcpQuery(
			"Specific Care Observations",
			"Observations on specific care agreements",
			constvars.ResourceObservation,
			fmt.Sprintf("patient=%s&code=%s|%s",
				patient, constvars.SnomedSystem, strings.Join(constvars.AcpObservationCodes, ",")),
		),
		models.NewAcpQuery(
			"ICD Medical Devices",
			"Implanted cardioverter defibrillators in use",
			constvars.ResourceDeviceUseStatement,
			fmt.Sprintf("patient=%s&device.type:in=%s&_include=DeviceUseStatement:device",
				patient, constvars.AcpIcdDeviceValueSet),
		),
		models.NewAcpQuery(
			"Communications",
			"Communications about advance care planning",
			constvars.ResourceCommunication,
			fmt.Sprintf("patient=%s&reason-code=%s|%s",
				patient, constvars.SnomedSystem, constvars.AcpProcedureCode),
		),
		models.NewAcpQuery(
			"ACP Forms",
			"Completed ACP questionnaires",
			constvars.ResourceQuestionnaireResponse,
			fmt.Sprintf("subject=%s&questionnaire=%s",
				patient, constvars.AcpQuestionnaireUrl),
		),
	}
}
