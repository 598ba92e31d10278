package graph

import (
	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/model"
)

// Current returns the section the reader is on, or nil before the first
// navigation.
func (g *Graph) Current() *model.Section {
	if g.adv.CurrentSectionID == 0 {
		return nil
	}
	return g.index[g.adv.CurrentSectionID]
}

// SetCurrentSection moves the reading position to the section with id.
func (g *Graph) SetCurrentSection(id int) error {
	if _, err := g.Section(id); err != nil {
		return err
	}
	g.adv.CurrentSectionID = id
	return nil
}

// Restart moves the reading position back to the start section.
func (g *Graph) Restart() *model.Section {
	g.adv.CurrentSectionID = g.adv.StartSectionID
	return g.index[g.adv.StartSectionID]
}

// AtLastSection reports whether the current section has no valid choices.
// An unset position counts as the last section.
func (g *Graph) AtLastSection() bool {
	cur := g.Current()
	if cur == nil {
		return true
	}
	return len(g.liveChoices(cur)) == 0
}

// ResolveChoice returns the target of the index-th valid choice of the
// current section without moving the reading position.
func (g *Graph) ResolveChoice(index int) (*model.Section, error) {
	cur := g.Current()
	if cur == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "no current section")
	}
	choices := g.liveChoices(cur)
	if index < 0 || index >= len(choices) {
		return nil, outOfRange("choice", index, len(choices))
	}
	target, ok := g.index[choices[index].Target.ID]
	if !ok {
		return nil, apperrors.NotFound("section", choices[index].Target.ID)
	}
	return target, nil
}

// Choose resolves the index-th valid choice and moves there.
func (g *Graph) Choose(index int) (*model.Section, error) {
	target, err := g.ResolveChoice(index)
	if err != nil {
		return nil, err
	}
	g.adv.CurrentSectionID = target.ID
	return target, nil
}

// RandomChoice picks uniformly among the current section's valid choices and
// moves there. It requires the adventure's random flag; a section without
// choices is terminal and yields an out of range error.
func (g *Graph) RandomChoice() (*model.Section, error) {
	if !g.adv.RandomEnabled {
		return nil, apperrors.Newf(apperrors.CodeRandomDisabled,
			"random choices are disabled for adventure %d", g.adv.ID)
	}
	cur := g.Current()
	if cur == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "no current section")
	}
	n := len(g.liveChoices(cur))
	if n == 0 {
		return nil, apperrors.Newf(apperrors.CodeOutOfRange, "section %d is the last section", cur.ID)
	}
	return g.Choose(g.rng.Intn(n))
}

// Path is one suggested reading path, a list of section ids.
type Path []int

// Paths suggests reading paths from startID by depth-first expansion,
// following choices in order. A path ends at a section without choices, at
// maxDepth sections, or where every next step would revisit a section
// already on the path. The walk stops as soon as limit paths are found, so
// its cost is bounded by limit * maxDepth * choices per section.
func (g *Graph) Paths(startID, maxDepth, limit int) ([]Path, error) {
	if _, err := g.Section(startID); err != nil {
		return nil, err
	}
	if maxDepth <= 0 {
		maxDepth = 10
	}
	if limit <= 0 {
		limit = 10
	}

	var paths []Path
	var walk func(current Path)
	walk = func(current Path) {
		if len(current) >= maxDepth {
			paths = append(paths, append(Path(nil), current...))
			return
		}
		last := g.index[current[len(current)-1]]
		extended := false
		for _, c := range g.liveChoices(last) {
			if len(paths) >= limit {
				return
			}
			if current.contains(c.Target.ID) {
				continue
			}
			extended = true
			walk(append(current, c.Target.ID))
		}
		if !extended && len(paths) < limit {
			paths = append(paths, append(Path(nil), current...))
		}
	}
	walk(Path{startID})
	return paths, nil
}

func (p Path) contains(id int) bool {
	for _, v := range p {
		if v == id {
			return true
		}
	}
	return false
}

// DanglingChoice describes a stored choice whose target section is gone.
type DanglingChoice struct {
	SectionID int `json:"section_id"`
	Index     int `json:"index"`
	TargetID  int `json:"target_id"`
}

// Dangling reports stored choices that point at missing sections. Reads
// already skip them; this is for diagnostics and repair.
func (g *Graph) Dangling() []DanglingChoice {
	var out []DanglingChoice
	for _, s := range g.adv.Sections {
		for i, c := range s.Choices {
			if _, ok := g.index[c.Target.ID]; !ok {
				out = append(out, DanglingChoice{SectionID: s.ID, Index: i, TargetID: c.Target.ID})
			}
		}
	}
	return out
}

// Prune drops every dangling choice from storage and returns how many were
// removed.
func (g *Graph) Prune() int {
	removed := 0
	for _, s := range g.adv.Sections {
		kept := s.Choices[:0]
		for _, c := range s.Choices {
			if _, ok := g.index[c.Target.ID]; ok {
				kept = append(kept, c)
			} else {
				removed++
			}
		}
		s.Choices = kept
	}
	if removed > 0 {
		g.touch()
	}
	return removed
}

// CheckConsistency returns an inconsistent graph error when stored choices
// point at missing sections.
func (g *Graph) CheckConsistency() error {
	d := g.Dangling()
	if len(d) == 0 {
		return nil
	}
	return apperrors.Newf(apperrors.CodeInconsistentGraph,
		"%d choice(s) reference missing sections", len(d))
}
