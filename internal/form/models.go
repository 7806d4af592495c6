package form

import (
	"time"

	"backend-experiencehub/internal/images"
	"backend-experiencehub/internal/location"
	"backend-experiencehub/internal/schedule"
)

// Experience is the submission payload handed to the persistence
// collaborator.
type Experience struct {
	ID            string            `json:"id,omitempty"`
	Name          string            `json:"name"`
	StartDateTime time.Time         `json:"start_date_time"`
	EndDateTime   time.Time         `json:"end_date_time"`
	Address       string            `json:"address"`
	Position      location.Position `json:"position"`
	Description   string            `json:"description"`
	Hashtags      []string          `json:"hashtags"`
	Category      string            `json:"category"`
	City          string            `json:"city,omitempty"`
}

// CityHint seeds a create-mode form with a city center.
type CityHint struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Submission is the successful submit output: the assembled experience
// plus the raw files, whose ownership transfers to the caller.
type Submission struct {
	Experience Experience
	Files      []images.File
}

// Snapshot is the externally visible form state.
type Snapshot struct {
	Name          string               `json:"name"`
	StartDateTime schedule.Parts       `json:"start_date_time"`
	EndDateTime   schedule.Parts       `json:"end_date_time"`
	Address       string               `json:"address"`
	Description   string               `json:"description"`
	Hashtags      string               `json:"hashtags"`
	Category      string               `json:"category"`
	Images        []images.StagedImage `json:"images"`
	Position      location.Position    `json:"position"`
	Marker        bool                 `json:"marker"`
	Loading       bool                 `json:"loading"`
	Valid         bool                 `json:"valid"`
	FieldErrors   []string             `json:"field_errors"`
}
