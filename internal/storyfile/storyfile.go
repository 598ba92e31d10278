// Package storyfile reads and writes adventures as YAML story files.
package storyfile

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	apperrors "github.com/rcliao/cyoa/internal/errors"
	"github.com/rcliao/cyoa/internal/model"
)

// Story is the on-disk shape of an adventure. Choices name their target by
// section id; titles are not written since they follow the target's name.
type Story struct {
	ID       int            `yaml:"id,omitempty"`
	Title    string         `yaml:"title"`
	Author   string         `yaml:"author,omitempty"`
	Start    int            `yaml:"start,omitempty"`
	Random   bool           `yaml:"random,omitempty"`
	Online   bool           `yaml:"online,omitempty"`
	Sections []StorySection `yaml:"sections"`
}

// StorySection is one section of a story file.
type StorySection struct {
	ID      int           `yaml:"id"`
	Name    string        `yaml:"name"`
	Media   []StoryMedia  `yaml:"media,omitempty"`
	Choices []StoryChoice `yaml:"choices,omitempty"`
}

// StoryChoice is an edge to another section.
type StoryChoice struct {
	To       int    `yaml:"to"`
	Decision string `yaml:"decision"`
}

// StoryMedia holds a media payload. Text media is written inline; anything
// else is base64 encoded.
type StoryMedia struct {
	ID       string `yaml:"id,omitempty"`
	Kind     string `yaml:"kind"`
	MimeType string `yaml:"mime_type,omitempty"`
	Caption  string `yaml:"caption,omitempty"`
	Text     string `yaml:"text,omitempty"`
	Data     string `yaml:"data,omitempty"`
}

// FromAdventure converts an adventure to its story file shape.
func FromAdventure(a *model.Adventure) *Story {
	st := &Story{
		ID:     a.ID,
		Title:  a.Title,
		Author: a.Author,
		Start:  a.StartSectionID,
		Random: a.RandomEnabled,
		Online: a.Online,
	}
	for _, s := range a.Sections {
		ss := StorySection{ID: s.ID, Name: s.Name}
		for _, c := range s.Choices {
			ss.Choices = append(ss.Choices, StoryChoice{To: c.Target.ID, Decision: c.Decision})
		}
		for _, m := range s.Media {
			sm := StoryMedia{ID: m.ID, Kind: m.Kind, MimeType: m.MimeType, Caption: m.Caption}
			if m.Kind == "text" {
				sm.Text = string(m.Data)
			} else {
				sm.Data = base64.StdEncoding.EncodeToString(m.Data)
			}
			ss.Media = append(ss.Media, sm)
		}
		st.Sections = append(st.Sections, ss)
	}
	return st
}

// Adventure converts a story back into an adventure. Choice titles are
// filled from the target section names where the target exists.
func (st *Story) Adventure() (*model.Adventure, error) {
	a := &model.Adventure{
		ID:             st.ID,
		Title:          st.Title,
		Author:         st.Author,
		StartSectionID: st.Start,
		RandomEnabled:  st.Random,
		Online:         st.Online,
	}
	names := make(map[int]string, len(st.Sections))
	for _, ss := range st.Sections {
		names[ss.ID] = ss.Name
	}
	for _, ss := range st.Sections {
		s := &model.Section{ID: ss.ID, Name: ss.Name}
		for _, c := range ss.Choices {
			s.Choices = append(s.Choices, model.Choice{
				Target:   model.SectionRef{ID: c.To, Title: names[c.To]},
				Decision: c.Decision,
			})
		}
		for _, sm := range ss.Media {
			m := model.Media{ID: sm.ID, Kind: sm.Kind, MimeType: sm.MimeType, Caption: sm.Caption}
			if sm.Data != "" {
				data, err := base64.StdEncoding.DecodeString(sm.Data)
				if err != nil {
					return nil, apperrors.Wrap(apperrors.CodeInvalidArgument,
						fmt.Sprintf("section %d: decode media", ss.ID), err)
				}
				m.Data = data
			} else {
				m.Data = []byte(sm.Text)
			}
			s.Media = append(s.Media, m)
		}
		a.Sections = append(a.Sections, s)
	}
	return a, nil
}

// Encode writes a as YAML.
func Encode(w io.Writer, a *model.Adventure) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromAdventure(a)); err != nil {
		return fmt.Errorf("encode story: %w", err)
	}
	return enc.Close()
}

// Decode reads one adventure from YAML and validates it.
func Decode(r io.Reader) (*model.Adventure, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read story: %w", err)
	}
	var st Story
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidArgument, "parse story", err)
	}
	a, err := st.Adventure()
	if err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid story", err)
	}
	return a, nil
}

// Export writes a to path, creating parent directories.
func Export(path string, a *model.Adventure) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create story dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create story: %w", err)
	}
	if err := Encode(f, a); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Import reads an adventure from path.
func Import(path string) (*model.Adventure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open story: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
