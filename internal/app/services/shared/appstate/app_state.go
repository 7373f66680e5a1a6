package appstate

import (
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/exceptions"
	"fauxhr-service/internal/pkg/utils"
	"fmt"
	"sync"

	"github.com/samply/golang-fhir-models/fhir-models/fhir"
	"go.uber.org/zap"
)

type EventKind int

const (
	ServerChanged EventKind = iota + 1
	PatientChanged
	DepthChanged
	PractitionerChanged
	OrganizationChanged
)

type Event struct {
	Kind         EventKind
	Settings     models.AcpSettings
	Patient      *fhir.Patient
	Practitioner models.PractitionerContext
}

type Observer func(Event)

// AppState holds the current server, patient and resolution depth. Setters
// report whether anything changed and notify observers only when it did.
type AppState struct {
	mu          sync.RWMutex
	serverURL   string
	patient     *fhir.Patient
	depth       int
	concurrency int
	observers   []Observer

	practitioner     *fhir.Practitioner
	practitionerRole *fhir.PractitionerRole
	orgName          string
	orgID            string
	Log         *zap.Logger
}

func NewAppState(serverURL string, depth, concurrency int, logger *zap.Logger) *AppState {
	if concurrency < 1 {
		concurrency = 1
	}
	return &AppState{
		serverURL:   utils.SanitizeServerURL(serverURL),
		depth:       ClampDepth(depth),
		concurrency: concurrency,
		Log:         logger,
	}
}

func ClampDepth(depth int) int {
	if depth < constvars.AcpReferenceResolutionMinDepth {
		return constvars.AcpReferenceResolutionMinDepth
	}
	if depth > constvars.AcpReferenceResolutionMaxDepth {
		return constvars.AcpReferenceResolutionMaxDepth
	}
	return depth
}

func (s *AppState) Subscribe(observer Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

func (s *AppState) Settings() models.AcpSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settingsLocked()
}

func (s *AppState) settingsLocked() models.AcpSettings {
	return models.AcpSettings{
		ServerURL:                s.serverURL,
		ReferenceResolutionDepth: s.depth,
		ResolverConcurrency:      s.concurrency,
	}
}

func (s *AppState) ServerURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serverURL
}

func (s *AppState) Patient() *fhir.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.patient
}

func (s *AppState) SetServerURL(serverURL string) (bool, error) {
	serverURL = utils.SanitizeServerURL(serverURL)
	if !utils.IsHTTPURL(serverURL) {
		return false, exceptions.ErrInvalidServerURL(fmt.Errorf("%q is not an absolute http(s) url", serverURL))
	}

	s.mu.Lock()
	if s.serverURL == serverURL {
		s.mu.Unlock()
		return false, nil
	}
	s.serverURL = serverURL
	event := Event{Kind: ServerChanged, Settings: s.settingsLocked(), Patient: s.patient}
	s.mu.Unlock()

	s.Log.Info("AppState.SetServerURL changed",
		zap.String(constvars.LoggingServerURLKey, serverURL),
	)
	s.notify(event)
	return true, nil
}

// SetPatient changes the current patient when the id differs from the stored one.
func (s *AppState) SetPatient(patient *fhir.Patient) bool {
	s.mu.Lock()
	if patientID(s.patient) == patientID(patient) && (s.patient == nil) == (patient == nil) {
		s.mu.Unlock()
		return false
	}
	s.patient = patient
	event := Event{Kind: PatientChanged, Settings: s.settingsLocked(), Patient: patient}
	s.mu.Unlock()

	s.Log.Info("AppState.SetPatient changed",
		zap.String(constvars.LoggingPatientIDKey, patientID(patient)),
	)
	s.notify(event)
	return true
}

func (s *AppState) SetReferenceResolutionDepth(depth int) bool {
	depth = ClampDepth(depth)

	s.mu.Lock()
	if s.depth == depth {
		s.mu.Unlock()
		return false
	}
	s.depth = depth
	event := Event{Kind: DepthChanged, Settings: s.settingsLocked(), Patient: s.patient}
	s.mu.Unlock()

	s.notify(event)
	return true
}

func (s *AppState) PractitionerContext() models.PractitionerContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.practitionerLocked()
}

func (s *AppState) practitionerLocked() models.PractitionerContext {
	return models.PractitionerContext{
		Practitioner:     s.practitioner,
		PractitionerRole: s.practitionerRole,
		OrganizationName: s.orgName,
		OrganizationID:   s.orgID,
	}
}

// SetPractitioner changes the author when the practitioner or role id differs.
func (s *AppState) SetPractitioner(practitioner *fhir.Practitioner, role *fhir.PractitionerRole) bool {
	s.mu.Lock()
	if practitionerID(s.practitioner) == practitionerID(practitioner) &&
		roleID(s.practitionerRole) == roleID(role) &&
		(s.practitioner == nil) == (practitioner == nil) &&
		(s.practitionerRole == nil) == (role == nil) {
		s.mu.Unlock()
		return false
	}
	s.practitioner = practitioner
	s.practitionerRole = role
	event := Event{Kind: PractitionerChanged, Settings: s.settingsLocked(), Patient: s.patient, Practitioner: s.practitionerLocked()}
	s.mu.Unlock()

	s.Log.Info("AppState.SetPractitioner changed",
		zap.String(constvars.LoggingPractitionerIDKey, practitionerID(practitioner)),
	)
	s.notify(event)
	return true
}

func (s *AppState) SetOrganization(name, organizationID string) bool {
	s.mu.Lock()
	if s.orgName == name && s.orgID == organizationID {
		s.mu.Unlock()
		return false
	}
	s.orgName = name
	s.orgID = organizationID
	event := Event{Kind: OrganizationChanged, Settings: s.settingsLocked(), Patient: s.patient, Practitioner: s.practitionerLocked()}
	s.mu.Unlock()

	s.notify(event)
	return true
}

func (s *AppState) notify(event Event) {
	s.mu.RLock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, observer := range observers {
		observer(event)
	}
}

func patientID(patient *fhir.Patient) string {
	if patient == nil || patient.Id == nil {
		return ""
	}
	return *patient.Id
}

func practitionerID(practitioner *fhir.Practitioner) string {
	if practitioner == nil || practitioner.Id == nil {
		return ""
	}
	return *practitioner.Id
}

func roleID(role *fhir.PractitionerRole) string {
	if role == nil || role.Id == nil {
		return ""
	}
	return *role.Id
}
