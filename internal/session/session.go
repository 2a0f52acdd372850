// Package session keeps signed-in identities in process memory.
//
// Authentication is a stub: any non-empty email and password sign in, and
// the admin flag is derived from the email alone. Each session also tracks,
// per event, where it stands in the registration workflow.
package session

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/google/uuid"
)

// AdminEmail is the one address that signs in with admin rights.
const AdminEmail = "admin@example.com"

// Display names given to the admin and to everyone else.
const (
	AdminName   = "Admin User"
	RegularName = "Regular User"
)

var (
	// ErrNoSession is returned when a token has no live session.
	ErrNoSession = errors.New("no active session")
	// ErrAlreadyRegistered is returned by Begin once the event is Registered.
	ErrAlreadyRegistered = errors.New("already registered for this event")
	// ErrRegistrationInProgress is returned by Begin while the event is Registering.
	ErrRegistrationInProgress = errors.New("registration already in progress")
)

// State is a session's position in the registration workflow of one event.
type State string

// Workflow states. Registered is terminal for a session.
const (
	StateUnregistered State = "unregistered"
	StateRegistering  State = "registering"
	StateRegistered   State = "registered"
)

type entry struct {
	session model.Session
	states  map[string]State
}

// Manager holds every live session keyed by its token.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

// NewManager constructs an empty Manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// Login starts a new session. It only checks that both credentials are
// present.
func (m *Manager) Login(email, password string) (model.Session, error) {
	email = strings.TrimSpace(email)
	fields := make(map[string]string)
	if email == "" {
		fields["email"] = "email is required"
	}
	if password == "" {
		fields["password"] = "password is required"
	}
	if err := model.NewValidationError(fields); err != nil {
		return model.Session{}, err
	}

	isAdmin := email == AdminEmail
	name := RegularName
	if isAdmin {
		name = AdminName
	}

	s := model.Session{
		Token:         uuid.New().String(),
		Name:          name,
		Email:         email,
		IsAdmin:       isAdmin,
		Registrations: []model.Registration{},
		CreatedAt:     m.now().UTC(),
	}

	m.mu.Lock()
	m.sessions[s.Token] = &entry{session: s, states: make(map[string]State)}
	m.mu.Unlock()

	return s, nil
}

// Logout ends the session. Unknown tokens are ignored.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Get returns a snapshot of the session or ErrNoSession.
func (m *Manager) Get(token string) (model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[token]
	if !ok {
		return model.Session{}, ErrNoSession
	}
	s := e.session
	s.Registrations = slices.Clone(e.session.Registrations)
	return s, nil
}

// RegisterForEvent appends reg to the session and marks its event
// Registered. An empty ID, UserEmail or CreatedAt is filled in from the
// session and the clock. It does not look at capacity and is a no-op
// without a session; ok reports whether anything was recorded.
func (m *Manager) RegisterForEvent(token string, reg model.Registration) (model.Registration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, found := m.sessions[token]
	if !found {
		return model.Registration{}, false
	}
	if reg.ID == "" {
		reg.ID = uuid.New().String()
	}
	if reg.UserEmail == "" {
		reg.UserEmail = e.session.Email
	}
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = m.now().UTC()
	}
	e.record(reg)
	return reg, true
}

// Begin moves the session's workflow for eventID into Registering.
func (m *Manager) Begin(token, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[token]
	if !ok {
		return ErrNoSession
	}
	switch e.states[eventID] {
	case StateRegistering:
		return ErrRegistrationInProgress
	case StateRegistered:
		return ErrAlreadyRegistered
	}
	e.states[eventID] = StateRegistering
	return nil
}

// Abort returns a Registering workflow to Unregistered.
func (m *Manager) Abort(token, eventID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[token]; ok && e.states[eventID] == StateRegistering {
		delete(e.states, eventID)
	}
}

// State returns the workflow state of eventID for the session.
func (m *Manager) State(token, eventID string) State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if e, ok := m.sessions[token]; ok {
		if st, ok := e.states[eventID]; ok {
			return st
		}
	}
	return StateUnregistered
}

func (e *entry) record(reg model.Registration) {
	e.session.Registrations = append(e.session.Registrations, reg)
	e.states[reg.EventID] = StateRegistered
}
