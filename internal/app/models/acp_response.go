package models

import "github.com/goccy/go-json"

type AcpQueriesResponse struct {
	PatientID string         `json:"patient_id"`
	Queries   []AcpQueryView `json:"queries"`
}

type RunAcpQueriesResponse struct {
	PatientID string         `json:"patient_id"`
	ServerURL string         `json:"server_url"`
	Queries   []AcpQueryView `json:"queries"`
	Resolve   *ResolveResult `json:"resolve,omitempty"`
}

// ResolveReferencesResponse carries the fetched resources as sent by the server.
type ResolveReferencesResponse struct {
	Result    *ResolveResult    `json:"result"`
	Resources []json.RawMessage `json:"resources"`
}

func NewResolveReferencesResponse(result *ResolveResult) ResolveReferencesResponse {
	response := ResolveReferencesResponse{
		Result:    result,
		Resources: make([]json.RawMessage, 0, len(result.Resources)),
	}
	for _, resource := range result.Resources {
		response.Resources = append(response.Resources, resource.Raw)
	}
	return response
}

func ViewQueries(queries []*AcpQuery, withResult bool) []AcpQueryView {
	views := make([]AcpQueryView, 0, len(queries))
	for i, query := range queries {
		views = append(views, query.View(i, withResult))
	}
	return views
}
