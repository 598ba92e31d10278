// Package model defines the core adventure data types.
package model

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Adventure is a complete branching story: the root container for sections.
type Adventure struct {
	ID               int        `json:"id" validate:"gte=0"`
	Title            string     `json:"title" validate:"required"`
	Author           string     `json:"author,omitempty"`
	StartSectionID   int        `json:"start_section_id" validate:"gte=0"`
	CurrentSectionID int        `json:"current_section_id,omitempty" validate:"gte=0"`
	RandomEnabled    bool       `json:"random_enabled"`
	Online           bool       `json:"online"`
	Sections         []*Section `json:"sections" validate:"dive,required"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Section is one narrative node with ordered media and outgoing choices.
type Section struct {
	ID      int      `json:"id" validate:"gte=0"`
	Name    string   `json:"name"`
	Media   []Media  `json:"media,omitempty" validate:"dive"`
	Choices []Choice `json:"choices,omitempty" validate:"dive"`
}

// SectionRef names a section by id and carries its last known title.
// The id is a weak reference: the section may no longer exist.
type SectionRef struct {
	ID    int    `json:"id" validate:"gt=0"`
	Title string `json:"title"`
}

// Choice is a labeled edge from the owning section to Target.
type Choice struct {
	Target   SectionRef `json:"target"`
	Decision string     `json:"decision"`
}

// Media is an opaque payload placed in a section's content list.
type Media struct {
	ID       string `json:"id"`
	Kind     string `json:"kind" validate:"oneof=image text audio video"`
	MimeType string `json:"mime_type,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

// ValidMediaKinds are the allowed media kinds.
var ValidMediaKinds = map[string]bool{
	"image": true,
	"text":  true,
	"audio": true,
	"video": true,
}

var validate = validator.New()

// Validate checks struct-level constraints of the adventure and everything it owns.
func (a *Adventure) Validate() error {
	return validate.Struct(a)
}

// SectionByID returns the section with the given id by linear scan, or nil.
func (a *Adventure) SectionByID(id int) *Section {
	for _, s := range a.Sections {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Ref returns a reference to the section carrying its current name.
func (s *Section) Ref() SectionRef {
	return SectionRef{ID: s.ID, Title: s.Name}
}
