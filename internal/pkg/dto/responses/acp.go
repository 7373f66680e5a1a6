package responses

type PatientLookup struct {
	PatientID string `json:"patient_id"`
	Found     bool   `json:"found"`
}
