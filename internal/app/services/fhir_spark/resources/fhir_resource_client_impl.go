package resources

import (
	"bytes"
	"context"
	"errors"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/exceptions"
	"fauxhr-service/internal/pkg/fhir_dto"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type fhirResourceClient struct {
	BaseUrl        string
	httpClient     *http.Client
	breaker        *gobreaker.CircuitBreaker
	limiter        *rate.Limiter
	requestTimeout time.Duration
	Log            *zap.Logger
}

type fhirResponse struct {
	statusCode int
	body       []byte
}

// errUpstreamStatus marks a 5xx answer so the breaker counts it as a failure
// while the body is still returned to the caller.
var errUpstreamStatus = errors.New("FHIR server answered with a server error")

var errInvalidBody = errors.New("FHIR server answered with a body that is not JSON")

func NewFhirResourceClient(baseUrl string, settings ClientSettings, logger *zap.Logger) contracts.FhirResourceClient {
	baseUrl = strings.TrimRight(baseUrl, "/")
	return &fhirResourceClient{
		BaseUrl:        baseUrl,
		httpClient:     settings.httpClient(),
		breaker:        newBreaker(baseUrl, settings, logger),
		limiter:        newLimiter(settings),
		requestTimeout: settings.RequestTimeout,
		Log:            logger,
	}
}

func (c *fhirResourceClient) BaseURL() string {
	return c.BaseUrl
}

func (c *fhirResourceClient) Search(ctx context.Context, resourceType, query string) (*fhir_dto.FHIRBundle, error) {
	requestURL := fmt.Sprintf("%s/%s", c.BaseUrl, resourceType)
	if query != "" {
		requestURL = requestURL + "?" + query
	}

	resp, err := c.do(ctx, constvars.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	bodyType, err := peekResourceType(resp.body)
	if err != nil && isSuccess(resp.statusCode) {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceBundle)
	}

	switch {
	case bodyType == constvars.ResourceOperationOutcome:
		return wrapInSearchset(resp.body), nil
	case isSuccess(resp.statusCode) && bodyType == constvars.ResourceBundle:
		bundle := new(fhir_dto.FHIRBundle)
		if err := json.Unmarshal(resp.body, bundle); err != nil {
			return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceBundle)
		}
		return bundle, nil
	case isSuccess(resp.statusCode):
		return nil, exceptions.ErrDecodeResponse(fmt.Errorf("expected Bundle, got %q", bodyType), constvars.ResourceBundle)
	default:
		return nil, exceptions.ErrGetFHIRResource(statusError(resp), constvars.ResourceBundle)
	}
}

// Get reads a relative path such as "Practitioner/123". An OperationOutcome
// body is returned as the resource.
func (c *fhirResourceClient) Get(ctx context.Context, path string) (json.RawMessage, error) {
	requestURL := fmt.Sprintf("%s/%s", c.BaseUrl, strings.TrimLeft(path, "/"))

	resp, err := c.do(ctx, constvars.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	resourceType, _ := peekResourceType(resp.body)
	if isSuccess(resp.statusCode) || resourceType == constvars.ResourceOperationOutcome {
		return json.RawMessage(resp.body), nil
	}
	if resp.statusCode == constvars.StatusNotFound {
		return nil, exceptions.ErrNoDataFHIRResource(statusError(resp), path)
	}
	return nil, exceptions.ErrGetFHIRResource(statusError(resp), path)
}

func (c *fhirResourceClient) Create(ctx context.Context, resourceType string, resource interface{}) (json.RawMessage, error) {
	requestJSON, err := json.Marshal(resource)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	resp, err := c.do(ctx, constvars.MethodPost, fmt.Sprintf("%s/%s", c.BaseUrl, resourceType), requestJSON)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.statusCode) {
		return nil, exceptions.ErrCreateFHIRResource(statusError(resp), resourceType)
	}
	return json.RawMessage(resp.body), nil
}

func (c *fhirResourceClient) Update(ctx context.Context, resourceType, resourceID string, resource interface{}) (json.RawMessage, error) {
	requestJSON, err := json.Marshal(resource)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	resp, err := c.do(ctx, constvars.MethodPut, fmt.Sprintf("%s/%s/%s", c.BaseUrl, resourceType, resourceID), requestJSON)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.statusCode) {
		return nil, exceptions.ErrUpdateFHIRResource(statusError(resp), resourceType)
	}
	return json.RawMessage(resp.body), nil
}

func (c *fhirResourceClient) Delete(ctx context.Context, resourceType, resourceID string) error {
	resp, err := c.do(ctx, constvars.MethodDelete, fmt.Sprintf("%s/%s/%s", c.BaseUrl, resourceType, resourceID), nil)
	if err != nil {
		return err
	}
	if resp.statusCode == constvars.StatusNotFound {
		return exceptions.ErrNoDataFHIRResource(statusError(resp), resourceType)
	}
	if !isSuccess(resp.statusCode) {
		return exceptions.ErrDeleteFHIRResource(statusError(resp), resourceType)
	}
	return nil
}

// do sends one request through the rate limiter and circuit breaker, bounded
// by the per request timeout.
func (c *fhirResourceClient) do(ctx context.Context, method, requestURL string, body []byte) (*fhirResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Debug("fhirResourceClient.do called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMethodKey, method),
		zap.String(constvars.LoggingEndpointKey, requestURL),
	)

	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrFhirRateLimiterWait(err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.send(ctx, method, requestURL, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, exceptions.ErrFhirCircuitOpen(err, c.BaseUrl)
	}
	if err != nil && !errors.Is(err, errUpstreamStatus) {
		return nil, err
	}

	resp := result.(*fhirResponse)
	c.Log.Debug("fhirResourceClient.do completed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEndpointKey, requestURL),
		zap.Int(constvars.LoggingStatusCodeKey, resp.statusCode),
	)
	return resp, nil
}

func (c *fhirResourceClient) send(ctx context.Context, method, requestURL string, body []byte) (*fhirResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)
	if body != nil {
		req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
	}
	if requestID, ok := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string); ok && requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, exceptions.ErrServerDeadlineExceeded(err)
		}
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrReadResponseBody(err)
	}

	result := &fhirResponse{statusCode: resp.StatusCode, body: bodyBytes}
	if resp.StatusCode >= constvars.StatusInternalServerError {
		return result, errUpstreamStatus
	}
	return result, nil
}

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

func peekResourceType(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", errInvalidBody
	}
	return gjson.GetBytes(body, "resourceType").String(), nil
}

// statusError prefers the first OperationOutcome diagnostics over the bare status.
func statusError(resp *fhirResponse) error {
	var outcome fhir_dto.OperationOutcome
	if err := json.Unmarshal(resp.body, &outcome); err == nil && len(outcome.Issue) > 0 && outcome.Issue[0].Diagnostics != "" {
		return errors.New(outcome.Issue[0].Diagnostics)
	}
	return fmt.Errorf("unexpected status %d", resp.statusCode)
}

func wrapInSearchset(outcome []byte) *fhir_dto.FHIRBundle {
	return &fhir_dto.FHIRBundle{
		ResourceType: constvars.ResourceBundle,
		Type:         constvars.FhirBundleTypeSearchset,
		Total:        1,
		Entry: []fhir_dto.Entry{
			{Resource: json.RawMessage(outcome)},
		},
	}
}
