package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rcliao/cyoa/internal/model"
)

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// adventureSummary is the listing shape of an adventure.
type adventureSummary struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author,omitempty"`
	Sections  int       `json:"sections"`
	Random    bool      `json:"random_enabled"`
	Online    bool      `json:"online"`
	UpdatedAt time.Time `json:"updated_at"`
}

func summarize(a *model.Adventure) adventureSummary {
	return adventureSummary{
		ID:        a.ID,
		Title:     a.Title,
		Author:    a.Author,
		Sections:  len(a.Sections),
		Random:    a.RandomEnabled,
		Online:    a.Online,
		UpdatedAt: a.UpdatedAt,
	}
}

func printAdventures(advs []*model.Adventure) {
	if !textOutput() {
		out := make([]adventureSummary, 0, len(advs))
		for _, a := range advs {
			out = append(out, summarize(a))
		}
		printJSON(out)
		return
	}
	for _, a := range advs {
		line := fmt.Sprintf("%4d  %s", a.ID, a.Title)
		if a.Author != "" {
			line += " by " + a.Author
		}
		fmt.Printf("%s  (%s, updated %s)\n", line,
			plural(len(a.Sections), "section"), humanize.Time(a.UpdatedAt))
	}
}

// sectionView is what a reader sees of one section.
type sectionView struct {
	AdventureID int         `json:"adventure_id"`
	SectionID   int         `json:"section_id"`
	Title       string      `json:"title"`
	Media       []mediaView `json:"media"`
	Choices     []string    `json:"choices"`
	Last        bool        `json:"last"`
	Random      bool        `json:"random_enabled"`
}

type mediaView struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	MimeType string `json:"mime_type,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Size     int    `json:"size"`
	Text     string `json:"text,omitempty"`
}

func viewMedia(media []model.Media) []mediaView {
	out := make([]mediaView, 0, len(media))
	for _, m := range media {
		mv := mediaView{ID: m.ID, Kind: m.Kind, MimeType: m.MimeType, Caption: m.Caption, Size: len(m.Data)}
		if m.Kind == "text" {
			mv.Text = string(m.Data)
		}
		out = append(out, mv)
	}
	return out
}

func printSection(v sectionView) {
	if !textOutput() {
		printJSON(v)
		return
	}
	title := v.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Printf("== %s [%d]\n", title, v.SectionID)
	for _, m := range v.Media {
		switch {
		case m.Text != "":
			fmt.Println(m.Text)
		case m.Caption != "":
			fmt.Printf("[%s: %s, %s]\n", m.Kind, m.Caption, humanize.Bytes(uint64(m.Size)))
		default:
			fmt.Printf("[%s, %s]\n", m.Kind, humanize.Bytes(uint64(m.Size)))
		}
	}
	if v.Last {
		fmt.Println("-- The End --")
		return
	}
	for i, c := range v.Choices {
		fmt.Printf("  %d) %s\n", i, c)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	return pad + strings.ReplaceAll(s, "\n", "\n"+pad)
}
