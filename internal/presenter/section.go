package presenter

import (
	"log"

	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/graph"
	"github.com/rcliao/cyoa/internal/model"
	"github.com/rcliao/cyoa/internal/registry"
)

// Section reads and edits the current section of one adventure.
//
// Reads that only feed the view (titles, choices, media) never fail: with
// no adventure or section selected they return empty values. Navigation the
// reader asked for explicitly returns its error.
type Section struct {
	reg    *registry.Registry
	view   View
	logger *log.Logger
	g      *graph.Graph
}

// NewSection returns a section presenter with no adventure selected.
func NewSection(reg *registry.Registry, view View, logger *log.Logger) *Section {
	return &Section{reg: reg, view: orNop(view), logger: orDiscard(logger)}
}

// SetAdventure selects the adventure to read. Reading resumes at the stored
// position, or at the start section when there is none.
func (p *Section) SetAdventure(id int) error {
	g, err := p.reg.Graph(id)
	if err != nil {
		return err
	}
	p.g = g
	if p.g.Current() == nil {
		p.g.Restart()
	}
	p.view.Refresh()
	return nil
}

func (p *Section) selected() (*graph.Graph, error) {
	if p.g == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "no adventure selected")
	}
	return p.g, nil
}

// current returns the current section, creating an empty placeholder when
// the position is unset.
func (p *Section) current() (*model.Section, error) {
	g, err := p.selected()
	if err != nil {
		return nil, err
	}
	if cur := g.Current(); cur != nil {
		return cur, nil
	}
	s := g.NewSection("")
	g.SetCurrentSection(s.ID)
	p.logger.Printf("adventure %d: no current section, created placeholder %d", g.Adventure().ID, s.ID)
	return s, nil
}

// Current returns the current section, or nil when nothing is selected.
func (p *Section) Current() *model.Section {
	if p.g == nil {
		return nil
	}
	return p.g.Current()
}

// SetCurrentSectionByID moves to the section with id. When ok is false, or
// id names no section, an empty placeholder section is created and becomes
// current.
func (p *Section) SetCurrentSectionByID(id int, ok bool) (*model.Section, error) {
	g, err := p.selected()
	if err != nil {
		return nil, err
	}
	var s *model.Section
	if ok {
		s, _ = g.Section(id)
	}
	if s == nil {
		s = g.NewSection("")
		p.logger.Printf("adventure %d: created placeholder section %d", g.Adventure().ID, s.ID)
	}
	if err := g.SetCurrentSection(s.ID); err != nil {
		return nil, err
	}
	p.view.Refresh()
	return s, nil
}

// Restart moves back to the start section.
func (p *Section) Restart() (*model.Section, error) {
	g, err := p.selected()
	if err != nil {
		return nil, err
	}
	s := g.Restart()
	p.view.Refresh()
	return s, nil
}

// AdventureID returns the selected adventure's id, or 0.
func (p *Section) AdventureID() int {
	if p.g == nil {
		return 0
	}
	return p.g.Adventure().ID
}

// SectionID returns the current section's id, or 0.
func (p *Section) SectionID() int {
	if cur := p.Current(); cur != nil {
		return cur.ID
	}
	return 0
}

// SectionTitle returns the current section's name.
func (p *Section) SectionTitle() string {
	if cur := p.Current(); cur != nil {
		return cur.Name
	}
	return ""
}

// SectionTitles lists every section of the adventure.
func (p *Section) SectionTitles() []model.SectionRef {
	if p.g == nil {
		return nil
	}
	return p.g.SectionTitles()
}

// UpdateSectionTitle renames the current section.
func (p *Section) UpdateSectionTitle(name string) error {
	cur, err := p.current()
	if err != nil {
		return err
	}
	if err := p.g.RenameSection(cur.ID, name); err != nil {
		return err
	}
	p.view.Refresh()
	return nil
}

// Choices returns the valid choices of the current section.
func (p *Section) Choices() []model.Choice {
	cur := p.Current()
	if cur == nil {
		return nil
	}
	choices, err := p.g.Choices(cur.ID)
	if err != nil {
		return nil
	}
	return choices
}

// ChoiceDescriptions returns the decision text of each valid choice.
func (p *Section) ChoiceDescriptions() []string {
	choices := p.Choices()
	out := make([]string, 0, len(choices))
	for _, c := range choices {
		out = append(out, c.Decision)
	}
	return out
}

// AddSectionChoice adds a choice from the current section to targetID. When
// targetID names no section a new one titled sectionTitle is created.
func (p *Section) AddSectionChoice(targetID int, decision, sectionTitle string) (model.Choice, error) {
	cur, err := p.current()
	if err != nil {
		return model.Choice{}, err
	}
	c, err := p.g.AddChoice(cur.ID, targetID, decision, sectionTitle)
	if err != nil {
		return model.Choice{}, err
	}
	p.view.Refresh()
	return c, nil
}

// RemoveSectionChoice removes the index-th valid choice of the current
// section.
func (p *Section) RemoveSectionChoice(index int) error {
	cur, err := p.current()
	if err != nil {
		return err
	}
	if err := p.g.RemoveChoice(cur.ID, index); err != nil {
		return err
	}
	p.view.Refresh()
	return nil
}

// NextByIndex follows the index-th valid choice.
func (p *Section) NextByIndex(index int) (*model.Section, error) {
	g, err := p.selected()
	if err != nil {
		return nil, err
	}
	s, err := g.Choose(index)
	if err != nil {
		return nil, err
	}
	p.view.Refresh()
	return s, nil
}

// Random follows a uniformly chosen valid choice. The adventure must have
// random choices enabled.
func (p *Section) Random() (*model.Section, error) {
	g, err := p.selected()
	if err != nil {
		return nil, err
	}
	s, err := g.RandomChoice()
	if err != nil {
		return nil, err
	}
	p.view.Refresh()
	return s, nil
}

// AtLastSection reports whether the current section has no valid choices.
func (p *Section) AtLastSection() bool {
	if p.g == nil {
		return true
	}
	return p.g.AtLastSection()
}

// IsRandomSet reports whether random choices are enabled.
func (p *Section) IsRandomSet() bool {
	return p.g != nil && p.g.Adventure().RandomEnabled
}

// Media returns the current section's media in order.
func (p *Section) Media() []model.Media {
	if cur := p.Current(); cur != nil {
		return cur.Media
	}
	return nil
}

// AddMedia appends media to the current section.
func (p *Section) AddMedia(m model.Media) (model.Media, error) {
	if !model.ValidMediaKinds[m.Kind] {
		return model.Media{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			"invalid media kind", map[string]string{"kind": m.Kind})
	}
	cur, err := p.current()
	if err != nil {
		return model.Media{}, err
	}
	added, err := p.g.AddMedia(cur.ID, m)
	if err != nil {
		return model.Media{}, err
	}
	p.view.Refresh()
	return added, nil
}

// ReplaceMedia swaps the payload at position pos of the current section's
// media.
func (p *Section) ReplaceMedia(pos int, m model.Media) error {
	if !model.ValidMediaKinds[m.Kind] {
		return apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			"invalid media kind", map[string]string{"kind": m.Kind})
	}
	cur, err := p.current()
	if err != nil {
		return err
	}
	if err := p.g.ReplaceMedia(cur.ID, pos, m); err != nil {
		return err
	}
	p.view.Refresh()
	return nil
}
