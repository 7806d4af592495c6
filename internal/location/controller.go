package location

import (
	"context"
	"strings"
	"sync"
	"time"

	"backend-experiencehub/internal/geocode"
)

// Fallback is the default map position when neither an experience nor a
// city hint provides one.
var Fallback = Position{Lat: 50.1111, Lng: 8.6821}

// Position is the authoritative geographic point. Both fields are
// always finite and set together.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Event is a map-redraw signal pushed to the hosting UI.
type Event struct {
	Type    string  `json:"type"` // marker | view | address | loading | notice
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
	Address string  `json:"address,omitempty"`
	Message string  `json:"message,omitempty"`
	Loading *bool   `json:"loading,omitempty"`
}

// State is a consistent snapshot of the controller.
type State struct {
	Position Position `json:"position"`
	Address  string   `json:"address"`
	Marker   bool     `json:"marker"`
	View     Position `json:"view"`
	Loading  bool     `json:"loading"`
}

// Controller keeps exactly one position + address pair consistent under
// two asynchronous triggers: debounced address edits (forward geocode)
// and map clicks (reverse geocode). A monotonic generation counter
// guards against stale responses mutating fresher state; a map click
// bumps the generation, superseding any in-flight forward lookup.
type Controller struct {
	mu       sync.Mutex
	geocoder geocode.Geocoder
	debounce time.Duration
	notify   func(Event)

	timer        *time.Timer
	generation   uint64
	lastSearched string

	position Position
	address  string
	marker   bool
	view     Position
	loading  bool
	closed   bool
}

// NewController creates a controller centered on pos. notify receives
// redraw events; it must not call back into the controller and must not
// block (nil is allowed).
func NewController(geocoder geocode.Geocoder, debounce time.Duration, pos Position, notify func(Event)) *Controller {
	if notify == nil {
		notify = func(Event) {}
	}
	if debounce <= 0 {
		debounce = time.Second
	}
	return &Controller{
		geocoder: geocoder,
		debounce: debounce,
		notify:   notify,
		position: pos,
		view:     pos,
	}
}

// Seed applies an existing experience's position and address verbatim,
// without re-geocoding.
func (c *Controller) Seed(pos Position, address string, marker bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = pos
	c.view = pos
	c.address = address
	c.marker = marker
	if marker {
		c.notify(Event{Type: "marker", Lat: pos.Lat, Lng: pos.Lng})
	}
}

// EditAddress is the user-driven edit path. The value lands in the
// address field immediately; the forward geocode fires only after the
// debounce quiet period, and only for the final value typed within it.
func (c *Controller) EditAddress(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.address = value

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.searchDebounced(value)
	})
}

func (c *Controller) searchDebounced(value string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	query := strings.TrimSpace(value)
	if query == "" {
		// a cleared field supersedes any in-flight lookup and resets the
		// duplicate comparison, so retyping the same address searches again
		c.generation++
		c.lastSearched = ""
		c.setLoading(false)
		c.mu.Unlock()
		return
	}
	if query == c.lastSearched {
		c.mu.Unlock()
		return
	}
	c.lastSearched = query
	c.generation++
	gen := c.generation
	c.setLoading(true)
	c.mu.Unlock()

	results, err := c.geocoder.Forward(context.Background(), query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		// superseded by a later edit or a map click
		return
	}
	c.setLoading(false)

	if err != nil {
		c.notify(Event{Type: "notice", Message: err.Error()})
		return
	}
	if len(results) == 0 {
		c.notify(Event{Type: "notice", Message: "Address not found."})
		return
	}

	best := results[0]
	lat, lng, err := best.ParseLatLon()
	if err != nil {
		c.notify(Event{Type: "notice", Message: "Address not found."})
		return
	}
	c.updatePosition(lat, lng, best.DisplayName)
}

// ClickMap is the reverse path. The marker and position commit to the
// clicked point immediately and survive a failed reverse lookup; only
// the address resolution is best-effort.
func (c *Controller) ClickMap(lat, lng float64) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.generation++
	gen := c.generation
	c.position = Position{Lat: lat, Lng: lng}
	c.marker = true
	c.notify(Event{Type: "marker", Lat: lat, Lng: lng})
	c.mu.Unlock()

	go func() {
		address, err := c.geocoder.Reverse(context.Background(), lat, lng)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || gen != c.generation {
			return
		}
		if err != nil {
			c.notify(Event{Type: "notice", Message: err.Error()})
			return
		}
		// quiet write-back: does not enter the debounce pipeline, and the
		// position stays at the exact clicked coordinates
		c.updatePosition(lat, lng, address)
	}()
}

// updatePosition is the only writer of position + address + marker
// together, so they are never mutually inconsistent outside a pending
// async call. Callers hold c.mu.
func (c *Controller) updatePosition(lat, lng float64, address string) {
	c.position = Position{Lat: lat, Lng: lng}
	c.address = address
	c.lastSearched = strings.TrimSpace(address)
	c.marker = true
	c.view = c.position
	c.notify(Event{Type: "marker", Lat: lat, Lng: lng})
	c.notify(Event{Type: "view", Lat: lat, Lng: lng})
	c.notify(Event{Type: "address", Address: address})
}

func (c *Controller) setLoading(v bool) {
	if c.loading == v {
		return
	}
	c.loading = v
	loading := v
	c.notify(Event{Type: "loading", Loading: &loading})
}

// Snapshot returns a consistent view of the controller state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Position: c.position,
		Address:  c.address,
		Marker:   c.marker,
		View:     c.view,
		Loading:  c.loading,
	}
}

// Reset restores the controller to pos, removes the marker, drops any
// in-flight lookup, and re-centers the map to the fallback view.
func (c *Controller) Reset(pos Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
	c.lastSearched = ""
	c.position = pos
	c.address = ""
	c.marker = false
	c.view = Fallback
	c.setLoading(false)
	c.notify(Event{Type: "view", Lat: c.view.Lat, Lng: c.view.Lng})
}

// Close cancels the debounce timer and invalidates in-flight lookups.
// Pending responses are dropped, not aborted.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.closed = true
}
