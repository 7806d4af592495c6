package session

import (
	"sync"
	"time"

	"backend-experiencehub/internal/form"
	"backend-experiencehub/internal/geocode"
	"backend-experiencehub/internal/images"
	"backend-experiencehub/internal/location"
	"backend-experiencehub/internal/stream"

	"github.com/google/uuid"
)

// Session is one open create/edit dialog: a form orchestrator plus the
// location controller and staging queue it composes.
type Session struct {
	ID        string
	Form      *form.Orchestrator
	CreatedAt time.Time

	location *location.Controller
}

type imagesEvent struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Manager owns the open sessions and wires each one's events into the
// stream hub.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	geocoder geocode.Geocoder
	debounce time.Duration
	hub      *stream.Hub
}

func NewManager(geocoder geocode.Geocoder, debounce time.Duration, hub *stream.Hub) *Manager {
	return &Manager{
		sessions: map[string]*Session{},
		geocoder: geocoder,
		debounce: debounce,
		hub:      hub,
	}
}

// Open creates a session seeded from an optional existing experience or
// city hint.
func (m *Manager) Open(existing *form.Experience, city *form.CityHint) *Session {
	id := uuid.NewString()

	loc := location.NewController(m.geocoder, m.debounce, location.Fallback, func(e location.Event) {
		m.hub.Publish(id, e)
	})
	queue := images.NewQueue(func(imgs []images.StagedImage) {
		m.hub.Publish(id, imagesEvent{Type: "images", Count: len(imgs)})
	})

	s := &Session{
		ID:        id,
		Form:      form.New(existing, city, loc, queue),
		CreatedAt: time.Now(),
		location:  loc,
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close tears a session down: the debounce timer is canceled and any
// in-flight lookup result is dropped.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.location.Close()
	}
	return ok
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
