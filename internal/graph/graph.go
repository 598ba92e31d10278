// Package graph implements navigation and editing of one adventure's
// section graph.
//
// Choices reference their target section by id only. The graph resolves those
// ids through its section index on every read, so a choice whose target was
// deleted is never handed to a caller.
package graph

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/idalloc"
	"github.com/rcliao/cyoa/internal/model"
)

// Graph wraps an adventure with a section index, a section id allocator and
// the random source used for random choices. A Graph is not safe for
// concurrent use; it is driven by a single presenter.
type Graph struct {
	adv   *model.Adventure
	index map[int]*model.Section
	ids   *idalloc.Allocator
	rng   *rand.Rand
}

// Option configures a Graph.
type Option func(*Graph)

// WithRand sets the random source used by RandomChoice.
func WithRand(r *rand.Rand) Option {
	return func(g *Graph) { g.rng = r }
}

// New builds a graph over adv. An adventure without sections gets an empty
// start section; a start id that does not resolve falls back to the first
// section, and a dangling current id is cleared.
func New(adv *model.Adventure, opts ...Option) *Graph {
	g := &Graph{
		adv:   adv,
		index: make(map[int]*model.Section, len(adv.Sections)),
		ids:   idalloc.New(1),
	}
	for _, o := range opts {
		o(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(newSeed()))
	}

	for _, s := range adv.Sections {
		if _, dup := g.index[s.ID]; dup || s.ID <= 0 {
			continue
		}
		g.index[s.ID] = s
		g.ids.Observe(s.ID)
	}
	// A dangling target id must never be handed out again, or the stale
	// choice would start pointing at an unrelated section.
	for _, s := range adv.Sections {
		for _, c := range s.Choices {
			g.ids.Observe(c.Target.ID)
		}
	}
	// Sections without a usable id get one now so every section is addressable.
	for _, s := range adv.Sections {
		if g.index[s.ID] != s {
			s.ID = g.ids.Next()
			g.index[s.ID] = s
		}
	}

	if len(adv.Sections) == 0 {
		start := g.AddSection(&model.Section{})
		adv.StartSectionID = start.ID
	}
	if _, ok := g.index[adv.StartSectionID]; !ok {
		adv.StartSectionID = adv.Sections[0].ID
	}
	if _, ok := g.index[adv.CurrentSectionID]; !ok {
		adv.CurrentSectionID = 0
	}
	return g
}

// newSeed reads a seed from crypto/rand, falling back to the clock.
func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Adventure returns the wrapped adventure.
func (g *Graph) Adventure() *model.Adventure {
	return g.adv
}

func (g *Graph) touch() {
	g.adv.UpdatedAt = time.Now().UTC()
}

// AddSection inserts s into the adventure. A missing or already used id is
// replaced by a fresh one. Duplicate names are allowed.
func (g *Graph) AddSection(s *model.Section) *model.Section {
	if s == nil {
		s = &model.Section{}
	}
	if _, taken := g.index[s.ID]; s.ID <= 0 || taken {
		s.ID = g.ids.Next()
	} else {
		g.ids.Observe(s.ID)
	}
	g.adv.Sections = append(g.adv.Sections, s)
	g.index[s.ID] = s
	g.touch()
	return s
}

// NewSection creates and inserts an empty section with the given name.
func (g *Graph) NewSection(name string) *model.Section {
	return g.AddSection(&model.Section{Name: name})
}

// Section returns the section with the given id.
func (g *Graph) Section(id int) (*model.Section, error) {
	s, ok := g.index[id]
	if !ok {
		return nil, apperrors.NotFound("section", id)
	}
	return s, nil
}

// RemoveSection deletes a section and every choice in the adventure that
// targets it. The start section cannot be removed.
func (g *Graph) RemoveSection(id int) error {
	if _, err := g.Section(id); err != nil {
		return err
	}
	if id == g.adv.StartSectionID {
		return apperrors.Newf(apperrors.CodeInvalidArgument, "cannot remove start section %d", id)
	}

	delete(g.index, id)
	kept := g.adv.Sections[:0]
	for _, s := range g.adv.Sections {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(g.adv.Sections); i++ {
		g.adv.Sections[i] = nil
	}
	g.adv.Sections = kept

	for _, s := range g.adv.Sections {
		choices := s.Choices[:0]
		for _, c := range s.Choices {
			if c.Target.ID != id {
				choices = append(choices, c)
			}
		}
		s.Choices = choices
	}

	if g.adv.CurrentSectionID == id {
		g.adv.CurrentSectionID = 0
	}
	g.touch()
	return nil
}

// RenameSection changes a section's name. Cached titles in choices pick the
// new name up on their next read.
func (g *Graph) RenameSection(id int, name string) error {
	s, err := g.Section(id)
	if err != nil {
		return err
	}
	s.Name = name
	g.touch()
	return nil
}

// SectionTitles lists every section in insertion order.
func (g *Graph) SectionTitles() []model.SectionRef {
	refs := make([]model.SectionRef, 0, len(g.adv.Sections))
	for _, s := range g.adv.Sections {
		refs = append(refs, s.Ref())
	}
	return refs
}

// Choices returns the valid choices of a section: choices whose target no
// longer exists are left out, and target titles are refreshed from the live
// section names.
func (g *Graph) Choices(sectionID int) ([]model.Choice, error) {
	s, err := g.Section(sectionID)
	if err != nil {
		return nil, err
	}
	return g.liveChoices(s), nil
}

func (g *Graph) liveChoices(s *model.Section) []model.Choice {
	live := make([]model.Choice, 0, len(s.Choices))
	for i := range s.Choices {
		target, ok := g.index[s.Choices[i].Target.ID]
		if !ok {
			continue
		}
		s.Choices[i].Target.Title = target.Name
		live = append(live, s.Choices[i])
	}
	return live
}

// storedIndex maps a position in the live choice list back to the position
// in the section's stored choices.
func (g *Graph) storedIndex(s *model.Section, liveIndex int) int {
	n := 0
	for i, c := range s.Choices {
		if _, ok := g.index[c.Target.ID]; !ok {
			continue
		}
		if n == liveIndex {
			return i
		}
		n++
	}
	return -1
}

// AddChoice appends a choice from sourceID to targetID. When targetID does
// not name a section, a new section titled newTitle is created and used as
// the target.
func (g *Graph) AddChoice(sourceID, targetID int, decision, newTitle string) (model.Choice, error) {
	src, err := g.Section(sourceID)
	if err != nil {
		return model.Choice{}, err
	}
	target, ok := g.index[targetID]
	if !ok {
		target = g.NewSection(newTitle)
	}
	c := model.Choice{Target: target.Ref(), Decision: decision}
	src.Choices = append(src.Choices, c)
	g.touch()
	return c, nil
}

// RemoveChoice removes the index-th valid choice of a section.
func (g *Graph) RemoveChoice(sectionID, index int) error {
	s, err := g.Section(sectionID)
	if err != nil {
		return err
	}
	i := -1
	if index >= 0 {
		i = g.storedIndex(s, index)
	}
	if i < 0 {
		return outOfRange("choice", index, len(g.liveChoices(s)))
	}
	s.Choices = append(s.Choices[:i], s.Choices[i+1:]...)
	g.touch()
	return nil
}

// AddMedia appends media to a section, assigning a ULID when m has no id.
func (g *Graph) AddMedia(sectionID int, m model.Media) (model.Media, error) {
	s, err := g.Section(sectionID)
	if err != nil {
		return model.Media{}, err
	}
	if m.ID == "" {
		m.ID = ulid.Make().String()
	}
	s.Media = append(s.Media, m)
	g.touch()
	return m, nil
}

// ReplaceMedia swaps the payload at position pos of a section's media list,
// keeping the media id.
func (g *Graph) ReplaceMedia(sectionID, pos int, m model.Media) error {
	s, err := g.Section(sectionID)
	if err != nil {
		return err
	}
	if pos < 0 || pos >= len(s.Media) {
		return outOfRange("media", pos, len(s.Media))
	}
	m.ID = s.Media[pos].ID
	s.Media[pos] = m
	g.touch()
	return nil
}

func outOfRange(kind string, index, count int) error {
	return apperrors.WithMetadata(apperrors.CodeOutOfRange,
		"no "+kind+" at index "+strconv.Itoa(index),
		map[string]string{"index": strconv.Itoa(index), "count": strconv.Itoa(count)})
}
