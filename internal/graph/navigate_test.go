package graph

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/model"
)

func TestChooseMovesPosition(t *testing.T) {
	g, ids := newTestGraph(t)
	g.Restart()

	s, err := g.Choose(0)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if s.ID != ids["left"] || g.Current().ID != ids["left"] {
		t.Fatalf("expected to be at left, got %d", g.Current().ID)
	}

	target, err := g.ResolveChoice(0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if target.ID != ids["end"] {
		t.Errorf("expected end, got %d", target.ID)
	}
	if g.Current().ID != ids["left"] {
		t.Error("resolve must not move the position")
	}
}

func TestTerminalSection(t *testing.T) {
	g, ids := newTestGraph(t)
	g.SetCurrentSection(ids["end"])

	if !g.AtLastSection() {
		t.Fatal("expected end to be the last section")
	}
	_, err := g.ResolveChoice(0)
	if !apperrors.IsCode(err, apperrors.CodeOutOfRange) {
		t.Fatalf("expected OUT_OF_RANGE, got %v", err)
	}
}

func TestResolveChoiceOutOfRange(t *testing.T) {
	g, _ := newTestGraph(t)
	g.Restart()
	for _, idx := range []int{-1, 2, 100} {
		if _, err := g.ResolveChoice(idx); !apperrors.IsCode(err, apperrors.CodeOutOfRange) {
			t.Errorf("index %d: expected OUT_OF_RANGE, got %v", idx, err)
		}
	}
}

func TestNavigationWithoutPosition(t *testing.T) {
	g, _ := newTestGraph(t)
	if !g.AtLastSection() {
		t.Error("expected unset position to count as last section")
	}
	if _, err := g.ResolveChoice(0); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	if err := g.SetCurrentSection(777); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestRandomChoiceRequiresFlag(t *testing.T) {
	g, _ := newTestGraph(t)
	g.Restart()
	if _, err := g.RandomChoice(); !apperrors.IsCode(err, apperrors.CodeRandomDisabled) {
		t.Fatalf("expected RANDOM_DISABLED, got %v", err)
	}
}

func TestRandomChoiceOnlyValidTargets(t *testing.T) {
	adv := &model.Adventure{
		Title:         "Loaded",
		RandomEnabled: true,
		Sections: []*model.Section{
			{ID: 1, Choices: []model.Choice{
				{Target: model.SectionRef{ID: 2}},
				{Target: model.SectionRef{ID: 9}},
				{Target: model.SectionRef{ID: 3}},
			}},
			{ID: 2},
			{ID: 3},
		},
	}
	g := New(adv, WithRand(rand.New(rand.NewSource(42))))

	counts := map[int]int{}
	for i := 0; i < 400; i++ {
		g.SetCurrentSection(1)
		s, err := g.RandomChoice()
		if err != nil {
			t.Fatalf("random choice: %v", err)
		}
		counts[s.ID]++
	}
	if counts[9] != 0 {
		t.Fatal("random choice picked a missing section")
	}
	if counts[2] < 100 || counts[3] < 100 {
		t.Errorf("expected both targets to be picked often, got %v", counts)
	}

	g.SetCurrentSection(2)
	if _, err := g.RandomChoice(); !apperrors.IsCode(err, apperrors.CodeOutOfRange) {
		t.Errorf("expected OUT_OF_RANGE at a terminal section, got %v", err)
	}
}

func TestPaths(t *testing.T) {
	g, ids := newTestGraph(t)
	// end -> start makes a cycle that must not be followed.
	g.AddChoice(ids["end"], ids["start"], "again", "")

	paths, err := g.Paths(ids["start"], 10, 10)
	if err != nil {
		t.Fatalf("paths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d: %v", len(paths), paths)
	}
	// Choices are followed in order: the whole left branch comes first.
	if len(paths[0]) != 3 || paths[0][1] != ids["left"] || paths[0][2] != ids["end"] {
		t.Errorf("unexpected first path %v", paths[0])
	}
	if len(paths[1]) != 2 || paths[1][1] != ids["right"] {
		t.Errorf("unexpected second path %v", paths[1])
	}

	short, _ := g.Paths(ids["start"], 2, 10)
	for _, p := range short {
		if len(p) > 2 {
			t.Errorf("path %v exceeds max depth", p)
		}
	}

	if _, err := g.Paths(999, 5, 5); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestPathsDenseGraph(t *testing.T) {
	// Every section links to every other section.
	const n = 12
	adv := &model.Adventure{Title: "Maze"}
	for i := 1; i <= n; i++ {
		s := &model.Section{ID: i}
		for j := 1; j <= n; j++ {
			if j != i {
				s.Choices = append(s.Choices, model.Choice{Target: model.SectionRef{ID: j}})
			}
		}
		adv.Sections = append(adv.Sections, s)
	}
	g := New(adv)

	start := time.Now()
	paths, err := g.Paths(1, 0, 0)
	if err != nil {
		t.Fatalf("paths: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("paths took %v", elapsed)
	}
	if len(paths) != 10 {
		t.Fatalf("expected 10 paths, got %d", len(paths))
	}
	seen := map[string]bool{}
	for _, p := range paths {
		if len(p) != 10 {
			t.Errorf("expected paths of depth 10, got %v", p)
		}
		key := fmt.Sprint(p)
		if seen[key] {
			t.Errorf("duplicate path %v", p)
		}
		seen[key] = true
	}
}
