package presenter

import (
	"log"
	"strings"
	"time"

	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/graph"
	"github.com/rcliao/cyoa/internal/model"
	"github.com/rcliao/cyoa/internal/registry"
)

// Adventure edits one adventure's settings and section list.
type Adventure struct {
	reg    *registry.Registry
	view   View
	logger *log.Logger
	g      *graph.Graph
}

// NewAdventure returns an adventure presenter with no adventure selected.
func NewAdventure(reg *registry.Registry, view View, logger *log.Logger) *Adventure {
	return &Adventure{reg: reg, view: orNop(view), logger: orDiscard(logger)}
}

// SetAdventure selects the adventure to edit.
func (p *Adventure) SetAdventure(id int) error {
	g, err := p.reg.Graph(id)
	if err != nil {
		return err
	}
	p.g = g
	p.view.Refresh()
	return nil
}

func (p *Adventure) selected() (*graph.Graph, error) {
	if p.g == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "no adventure selected")
	}
	return p.g, nil
}

func (p *Adventure) changed() {
	p.g.Adventure().UpdatedAt = time.Now().UTC()
	p.view.Refresh()
}

// ID returns the selected adventure's id, or 0.
func (p *Adventure) ID() int {
	if p.g == nil {
		return 0
	}
	return p.g.Adventure().ID
}

// Title returns the adventure title, or "" when nothing is selected.
func (p *Adventure) Title() string {
	if p.g == nil {
		return ""
	}
	return p.g.Adventure().Title
}

// SetTitle renames the adventure. The title may not be blank.
func (p *Adventure) SetTitle(title string) error {
	g, err := p.selected()
	if err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "title is required")
	}
	g.Adventure().Title = title
	p.changed()
	return nil
}

// SetAuthor changes the adventure author.
func (p *Adventure) SetAuthor(author string) error {
	g, err := p.selected()
	if err != nil {
		return err
	}
	g.Adventure().Author = author
	p.changed()
	return nil
}

// IsRandomSet reports whether random choices are enabled.
func (p *Adventure) IsRandomSet() bool {
	return p.g != nil && p.g.Adventure().RandomEnabled
}

// SetRandom enables or disables random choices.
func (p *Adventure) SetRandom(on bool) error {
	g, err := p.selected()
	if err != nil {
		return err
	}
	g.Adventure().RandomEnabled = on
	p.changed()
	return nil
}

// IsOnline reports whether the adventure is marked for publishing.
func (p *Adventure) IsOnline() bool {
	return p.g != nil && p.g.Adventure().Online
}

// SetOnline marks the adventure for publishing or takes it offline.
func (p *Adventure) SetOnline(on bool) error {
	g, err := p.selected()
	if err != nil {
		return err
	}
	g.Adventure().Online = on
	p.changed()
	return nil
}

// SectionTitles lists the adventure's sections, or nothing when no
// adventure is selected.
func (p *Adventure) SectionTitles() []model.SectionRef {
	if p.g == nil {
		return nil
	}
	return p.g.SectionTitles()
}

// NewSection adds an empty section.
func (p *Adventure) NewSection(name string) (*model.Section, error) {
	g, err := p.selected()
	if err != nil {
		return nil, err
	}
	s := g.NewSection(name)
	p.logger.Printf("adventure %d: added section %d", g.Adventure().ID, s.ID)
	p.view.Refresh()
	return s, nil
}

// RenameSection renames a section.
func (p *Adventure) RenameSection(id int, name string) error {
	g, err := p.selected()
	if err != nil {
		return err
	}
	if err := g.RenameSection(id, name); err != nil {
		return err
	}
	p.view.Refresh()
	return nil
}

// DeleteSection removes a section and every choice leading to it.
func (p *Adventure) DeleteSection(id int) error {
	g, err := p.selected()
	if err != nil {
		return err
	}
	if err := g.RemoveSection(id); err != nil {
		return err
	}
	p.logger.Printf("adventure %d: removed section %d", g.Adventure().ID, id)
	p.view.Refresh()
	return nil
}

// Paths suggests reading paths from the start section.
func (p *Adventure) Paths(maxDepth, limit int) ([]graph.Path, error) {
	g, err := p.selected()
	if err != nil {
		return nil, err
	}
	return g.Paths(g.Adventure().StartSectionID, maxDepth, limit)
}

// Dangling reports stored choices whose target is gone.
func (p *Adventure) Dangling() []graph.DanglingChoice {
	if p.g == nil {
		return nil
	}
	return p.g.Dangling()
}

// Check returns an INCONSISTENT_GRAPH error when stored choices point at
// missing sections.
func (p *Adventure) Check() error {
	g, err := p.selected()
	if err != nil {
		return err
	}
	return g.CheckConsistency()
}

// Prune drops dangling choices and returns how many were removed.
func (p *Adventure) Prune() int {
	if p.g == nil {
		return 0
	}
	n := p.g.Prune()
	if n > 0 {
		p.logger.Printf("adventure %d: pruned %d dangling choice(s)", p.g.Adventure().ID, n)
		p.view.Refresh()
	}
	return n
}
