package storyfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/model"
)

func sampleAdventure() *model.Adventure {
	return &model.Adventure{
		ID:             7,
		Title:          "The Cave",
		Author:         "Tyler",
		StartSectionID: 1,
		RandomEnabled:  true,
		Sections: []*model.Section{
			{ID: 1, Name: "entrance", Choices: []model.Choice{
				{Target: model.SectionRef{ID: 2, Title: "old title"}, Decision: "go in"},
			}, Media: []model.Media{
				{ID: "01J0000000000000000000000A", Kind: "text", Data: []byte("It is dark.")},
				{ID: "01J0000000000000000000000B", Kind: "image", MimeType: "image/png", Data: []byte{0x89, 0x00, 0xff}},
			}},
			{ID: 2, Name: "tunnel"},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sampleAdventure()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(buf.String(), "text: It is dark.") {
		t.Errorf("expected text media inline, got:\n%s", buf.String())
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != 7 || got.Title != "The Cave" || got.Author != "Tyler" || !got.RandomEnabled {
		t.Errorf("unexpected adventure fields %+v", got)
	}
	if len(got.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(got.Sections))
	}
	c := got.Sections[0].Choices[0]
	if c.Target.ID != 2 || c.Target.Title != "tunnel" || c.Decision != "go in" {
		t.Errorf("unexpected choice %+v", c)
	}
	media := got.Sections[0].Media
	if len(media) != 2 || string(media[0].Data) != "It is dark." {
		t.Fatalf("unexpected media %+v", media)
	}
	if !bytes.Equal(media[1].Data, []byte{0x89, 0x00, 0xff}) || media[1].ID != "01J0000000000000000000000B" {
		t.Errorf("binary media did not round trip: %+v", media[1])
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed yaml", "title: [unclosed"},
		{"missing title", "sections:\n  - id: 1\n    name: a\n"},
		{"bad media data", "title: x\nsections:\n  - id: 1\n    media:\n      - kind: image\n        data: '***'\n"},
		{"bad media kind", "title: x\nsections:\n  - id: 1\n    media:\n      - kind: hologram\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			if !apperrors.IsCode(err, apperrors.CodeInvalidArgument) {
				t.Errorf("expected INVALID_ARGUMENT, got %v", err)
			}
		})
	}
}

func TestExportImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stories", "cave.yaml")
	if err := Export(path, sampleAdventure()); err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := Import(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if got.Title != "The Cave" {
		t.Errorf("expected title to survive, got %q", got.Title)
	}
	if _, err := Import(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cave.yaml")
	if err := Export(path, sampleAdventure()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *model.Adventure, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, WatchConfig{
			Path:     path,
			Debounce: 20 * time.Millisecond,
			OnChange: func(a *model.Adventure) { changes <- a },
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	adv := sampleAdventure()
	adv.Title = "The Flooded Cave"
	if err := Export(path, adv); err != nil {
		t.Fatal(err)
	}

	select {
	case a := <-changes:
		if a.Title != "The Flooded Cave" {
			t.Errorf("expected reloaded title, got %q", a.Title)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watch returned %v", err)
	}
}

func TestWatchReloadsSerially(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cave.yaml")
	if err := Export(path, sampleAdventure()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var inFlight, maxInFlight, calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, WatchConfig{
			Path:     path,
			Debounce: 10 * time.Millisecond,
			OnChange: func(*model.Adventure) {
				n := inFlight.Add(1)
				for {
					m := maxInFlight.Load()
					if n <= m || maxInFlight.CompareAndSwap(m, n) {
						break
					}
				}
				time.Sleep(100 * time.Millisecond)
				calls.Add(1)
				inFlight.Add(-1)
			},
		})
	}()

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		adv := sampleAdventure()
		adv.Title = strings.Repeat("x", i+1)
		if err := Export(path, adv); err != nil {
			t.Fatal(err)
		}
		time.Sleep(30 * time.Millisecond)
	}

	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Fatal("no reload after writes")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watch returned %v", err)
	}
	if inFlight.Load() != 0 {
		t.Error("change handler still running after Watch returned")
	}
	after := calls.Load()
	time.Sleep(200 * time.Millisecond)
	if calls.Load() != after {
		t.Error("change handler ran after Watch returned")
	}
	if m := maxInFlight.Load(); m != 1 {
		t.Errorf("expected reloads to run one at a time, saw %d at once", m)
	}
}

func TestWatchRequiresHandler(t *testing.T) {
	if err := Watch(context.Background(), WatchConfig{Path: "x.yaml"}); err == nil {
		t.Error("expected error without a change handler")
	}
}

func TestWatchMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "cave.yaml")
	err := Watch(context.Background(), WatchConfig{Path: path, OnChange: func(*model.Adventure) {}})
	if err == nil {
		t.Error("expected error for a missing directory")
	}
	if _, statErr := os.Stat(filepath.Dir(path)); !os.IsNotExist(statErr) {
		t.Error("watch must not create directories")
	}
}
