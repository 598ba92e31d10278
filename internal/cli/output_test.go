package cli

import (
	"testing"
	"time"

	"github.com/rcliao/cyoa/internal/model"
)

func TestKindForMIME(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", "image"},
		{"text/plain; charset=utf-8", "text"},
		{"audio/mpeg", "audio"},
		{"video/mp4", "video"},
		{"application/pdf", ""},
		{"application/octet-stream", ""},
	}
	for _, tt := range tests {
		if got := kindForMIME(tt.mime); got != tt.want {
			t.Errorf("kindForMIME(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	a := &model.Adventure{
		ID:            4,
		Title:         "Cave",
		Author:        "Tyler",
		RandomEnabled: true,
		Sections:      []*model.Section{{ID: 1}, {ID: 2}},
		UpdatedAt:     now,
	}
	s := summarize(a)
	if s.ID != 4 || s.Sections != 2 || !s.Random || !s.UpdatedAt.Equal(now) {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestViewMedia(t *testing.T) {
	views := viewMedia([]model.Media{
		{ID: "a", Kind: "text", Data: []byte("It is dark.")},
		{ID: "b", Kind: "image", MimeType: "image/png", Data: make([]byte, 2048)},
	})
	if views[0].Text != "It is dark." || views[0].Size != 11 {
		t.Errorf("unexpected text media view %+v", views[0])
	}
	if views[1].Text != "" || views[1].Size != 2048 {
		t.Errorf("unexpected image media view %+v", views[1])
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 sections"},
		{1, "1 section"},
		{1200, "1,200 sections"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, "section"); got != tt.want {
			t.Errorf("plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
