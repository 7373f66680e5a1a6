package models

import (
	"fauxhr-service/internal/pkg/fhir_dto"
	"sync"
)

type QueryStatus string

const (
	QueryStatusPending QueryStatus = "Pending"
	QueryStatusRunning QueryStatus = "Running"
	QueryStatusSuccess QueryStatus = "Success"
	QueryStatusError   QueryStatus = "Error"
)

// AcpQuery is a single catalog search. Its status fields are guarded so that a
// second Execute on a running query is observed and ignored.
type AcpQuery struct {
	Title        string
	Description  string
	ResourceType string
	QueryString  string

	mu           sync.Mutex
	status       QueryStatus
	result       *fhir_dto.FHIRBundle
	errorMessage string
}

func NewAcpQuery(title, description, resourceType, queryString string) *AcpQuery {
	return &AcpQuery{
		Title:        title,
		Description:  description,
		ResourceType: resourceType,
		QueryString:  queryString,
		status:       QueryStatusPending,
	}
}

// TryStart moves the query to Running and clears the previous outcome.
// It returns false when the query is already running.
func (q *AcpQuery) TryStart() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.status == QueryStatusRunning {
		return false
	}
	q.status = QueryStatusRunning
	q.result = nil
	q.errorMessage = ""
	return true
}

func (q *AcpQuery) Succeed(result *fhir_dto.FHIRBundle) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.status = QueryStatusSuccess
	q.result = result
	q.errorMessage = ""
}

func (q *AcpQuery) Fail(result *fhir_dto.FHIRBundle, message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.status = QueryStatusError
	q.result = result
	q.errorMessage = message
}

func (q *AcpQuery) Status() QueryStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.status
}

func (q *AcpQuery) Result() *fhir_dto.FHIRBundle {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.result
}

func (q *AcpQuery) ErrorMessage() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.errorMessage
}

type AcpQueryView struct {
	Index        int                  `json:"index"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	ResourceType string               `json:"resource_type"`
	QueryString  string               `json:"query_string"`
	Status       QueryStatus          `json:"status"`
	ErrorMessage string               `json:"error_message,omitempty"`
	Total        int                  `json:"total"`
	Result       *fhir_dto.FHIRBundle `json:"result,omitempty"`
}

// View copies the query into a serialisable value.
func (q *AcpQuery) View(index int, withResult bool) AcpQueryView {
	q.mu.Lock()
	defer q.mu.Unlock()
	view := AcpQueryView{
		Index:        index,
		Title:        q.Title,
		Description:  q.Description,
		ResourceType: q.ResourceType,
		QueryString:  q.QueryString,
		Status:       q.status,
		ErrorMessage: q.errorMessage,
	}
	if q.result != nil {
		view.Total = len(q.result.Entry)
		if withResult {
			view.Result = q.result
		}
	}
	return view
}

// ResolveResult reports one reference resolution run. Resources only holds
// resources fetched during the run.
type ResolveResult struct {
	Title        string              `json:"title"`
	ResourceType string              `json:"resource_type"`
	Status       QueryStatus         `json:"status"`
	ErrorMessage string              `json:"error_message,omitempty"`
	Resources    []*ClinicalResource `json:"-"`
	References   []string            `json:"references"`
	Total        int                 `json:"total"`
	Passes       int                 `json:"passes"`
}
