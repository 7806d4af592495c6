package form

import (
	"strings"
	"sync"
	"time"

	"backend-experiencehub/internal/images"
	"backend-experiencehub/internal/location"
	"backend-experiencehub/internal/schedule"
)

// Field names, grouped the way the form lays them out.
const (
	FieldName        = "name"
	FieldStartDate   = "startDateTime.date"
	FieldStartTime   = "startDateTime.time"
	FieldEndDate     = "endDateTime.date"
	FieldEndTime     = "endDateTime.time"
	FieldAddress     = "address"
	FieldDescription = "description"
	FieldHashtags    = "hashtags"
	FieldCategory    = "category"
)

const (
	msgInvalidDateRange = "End date/time must be after Start date/time."
	msgRequiredFields   = "Please fill in all required fields correctly."
)

// ValidationError blocks submission; every invalid field becomes
// visibly marked.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Orchestrator owns the form state for one create/edit session and
// composes the location controller and the image staging queue. It is
// the only writer of the plain fields; address and position are owned
// by the location controller and read through it.
type Orchestrator struct {
	mu sync.Mutex

	name        string
	description string
	hashtags    string
	category    string
	start       schedule.Parts
	end         schedule.Parts

	touched   map[string]bool
	submitted bool

	editID     string
	cityName   string
	defaultPos location.Position

	location *location.Controller
	images   *images.Queue
}

// New seeds a form from an optional existing experience (edit mode) or
// an optional city hint (create mode). Edit mode takes position and
// address verbatim, with no re-geocoding.
func New(existing *Experience, city *CityHint, loc *location.Controller, queue *images.Queue) *Orchestrator {
	o := &Orchestrator{
		start:      schedule.Parts{Time: "00:00"},
		end:        schedule.Parts{Time: "00:00"},
		touched:    map[string]bool{},
		defaultPos: location.Fallback,
		location:   loc,
		images:     queue,
	}
	if city != nil {
		o.cityName = city.Name
		o.defaultPos = location.Position{Lat: city.Lat, Lng: city.Lng}
	}
	if existing != nil {
		o.editID = existing.ID
		o.name = existing.Name
		o.description = existing.Description
		o.hashtags = strings.Join(existing.Hashtags, " ")
		o.category = existing.Category
		o.start = schedule.Split(existing.StartDateTime)
		o.end = schedule.Split(existing.EndDateTime)
		loc.Seed(existing.Position, existing.Address, true)
	} else {
		loc.Seed(o.defaultPos, "", false)
	}
	return o
}

func (o *Orchestrator) SetName(v string)        { o.set(FieldName, func() { o.name = v }) }
func (o *Orchestrator) SetDescription(v string) { o.set(FieldDescription, func() { o.description = v }) }
func (o *Orchestrator) SetHashtags(v string)    { o.set(FieldHashtags, func() { o.hashtags = v }) }
func (o *Orchestrator) SetCategory(v string)    { o.set(FieldCategory, func() { o.category = v }) }

func (o *Orchestrator) SetStartDate(v *time.Time) { o.set(FieldStartDate, func() { o.start.Date = v }) }
func (o *Orchestrator) SetStartTime(v string)     { o.set(FieldStartTime, func() { o.start.Time = v }) }
func (o *Orchestrator) SetEndDate(v *time.Time)   { o.set(FieldEndDate, func() { o.end.Date = v }) }
func (o *Orchestrator) SetEndTime(v string)       { o.set(FieldEndTime, func() { o.end.Time = v }) }

func (o *Orchestrator) set(field string, apply func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	apply()
	o.touched[field] = true
}

// EditAddress is the user-driven address edit path; it enters the
// debounce pipeline of the location controller.
func (o *Orchestrator) EditAddress(value string) {
	o.mu.Lock()
	o.touched[FieldAddress] = true
	o.mu.Unlock()
	o.location.EditAddress(value)
}

// ClickMap forwards a map click to the location controller.
func (o *Orchestrator) ClickMap(lat, lng float64) {
	o.location.ClickMap(lat, lng)
}

// StageImages stages a batch of uploaded files, bounded at the image cap.
func (o *Orchestrator) StageImages(files []images.File) error {
	return o.images.Stage(files)
}

// validLocked reports whether the aggregate form, including the
// cross-field date rule, would submit. Callers hold o.mu.
func (o *Orchestrator) validLocked() bool {
	return len(o.invalidFields()) == 0 && !o.rangeInvalid()
}

// ErrorVisible implements the error-display policy: a field shows its
// own error once interacted with or after a submit attempt; date/time
// fields additionally show the cross-field range error when their group
// was interacted with or the form was submitted.
func (o *Orchestrator) ErrorVisible(field string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.errorVisibleLocked(field)
}

func (o *Orchestrator) errorVisibleLocked(field string) bool {
	invalid := false
	for _, f := range o.invalidFields() {
		if f == field {
			invalid = true
			break
		}
	}
	if invalid && (o.touched[field] || o.submitted) {
		return true
	}

	switch field {
	case FieldStartDate, FieldStartTime, FieldEndDate, FieldEndTime:
		if o.rangeInvalid() && (o.groupTouched(field) || o.submitted) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) groupTouched(field string) bool {
	if strings.HasPrefix(field, "startDateTime.") {
		return o.touched[FieldStartDate] || o.touched[FieldStartTime]
	}
	return o.touched[FieldEndDate] || o.touched[FieldEndTime]
}

func (o *Orchestrator) invalidFields() []string {
	var fields []string
	if o.name == "" {
		fields = append(fields, FieldName)
	}
	if o.start.Date == nil {
		fields = append(fields, FieldStartDate)
	}
	if o.start.Time == "" {
		fields = append(fields, FieldStartTime)
	}
	if o.end.Date == nil {
		fields = append(fields, FieldEndDate)
	}
	if o.end.Time == "" {
		fields = append(fields, FieldEndTime)
	}
	if o.location.Snapshot().Address == "" {
		fields = append(fields, FieldAddress)
	}
	if o.category == "" {
		fields = append(fields, FieldCategory)
	}
	return fields
}

func (o *Orchestrator) rangeInvalid() bool {
	return !schedule.ValidRange(o.start, o.end)
}

// Submit validates the aggregate form and either returns the assembled
// experience with the raw files, or a ValidationError after marking
// every field as interacted-with. A successful submit always resets the
// form back to defaults.
func (o *Orchestrator) Submit() (*Submission, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.validLocked() {
		o.submitted = true
		if o.rangeInvalid() {
			return nil, &ValidationError{Message: msgInvalidDateRange}
		}
		return nil, &ValidationError{Message: msgRequiredFields}
	}

	start, err := schedule.Combine(*o.start.Date, o.start.Time)
	if err != nil {
		o.submitted = true
		return nil, &ValidationError{Message: msgRequiredFields}
	}
	end, err := schedule.Combine(*o.end.Date, o.end.Time)
	if err != nil {
		o.submitted = true
		return nil, &ValidationError{Message: msgRequiredFields}
	}

	loc := o.location.Snapshot()
	experience := Experience{
		ID:            o.editID,
		Name:          o.name,
		StartDateTime: start,
		EndDateTime:   end,
		Address:       loc.Address,
		Position:      loc.Position,
		Description:   o.description,
		Hashtags:      ExtractHashtags(o.hashtags),
		Category:      o.category,
		City:          o.cityName,
	}
	files := o.images.Drain()

	o.resetLocked()
	return &Submission{Experience: experience, Files: files}, nil
}

// Reset restores every field to its initial default, clears staged
// images, removes the marker, and re-centers the map.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resetLocked()
}

func (o *Orchestrator) resetLocked() {
	o.name = ""
	o.description = ""
	o.hashtags = ""
	o.category = ""
	o.start = schedule.Parts{Time: "00:00"}
	o.end = schedule.Parts{Time: "00:00"}
	o.touched = map[string]bool{}
	o.submitted = false
	o.images.Clear()
	o.location.Reset(o.defaultPos)
}

// Snapshot returns the externally visible form state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	loc := o.location.Snapshot()
	var visible []string
	for _, f := range []string{FieldName, FieldStartDate, FieldStartTime, FieldEndDate, FieldEndTime, FieldAddress, FieldCategory} {
		if o.errorVisibleLocked(f) {
			visible = append(visible, f)
		}
	}
	return Snapshot{
		Name:          o.name,
		StartDateTime: o.start,
		EndDateTime:   o.end,
		Address:       loc.Address,
		Description:   o.description,
		Hashtags:      o.hashtags,
		Category:      o.category,
		Images:        o.images.Images(),
		Position:      loc.Position,
		Marker:        loc.Marker,
		Loading:       loc.Loading,
		Valid:         o.validLocked(),
		FieldErrors:   visible,
	}
}

// ExtractHashtags splits the raw hashtag input on whitespace and keeps
// only tokens that begin with '#' and are longer than one rune.
func ExtractHashtags(raw string) []string {
	tags := []string{}
	for _, token := range strings.Fields(raw) {
		if strings.HasPrefix(token, "#") && len(token) > 1 {
			tags = append(tags, token)
		}
	}
	return tags
}
