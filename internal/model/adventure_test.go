package model

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		adv  Adventure
		ok   bool
	}{
		{"minimal", Adventure{Title: "Cave", Sections: []*Section{{ID: 1}}}, true},
		{"missing title", Adventure{Sections: []*Section{{ID: 1}}}, false},
		{"nil section", Adventure{Title: "Cave", Sections: []*Section{nil}}, false},
		{"bad media kind", Adventure{Title: "Cave", Sections: []*Section{{
			ID: 1, Media: []Media{{Kind: "hologram"}},
		}}}, false},
		{"choice without target", Adventure{Title: "Cave", Sections: []*Section{{
			ID: 1, Choices: []Choice{{Decision: "go"}},
		}}}, false},
		{"image media", Adventure{Title: "Cave", Sections: []*Section{{
			ID: 1, Media: []Media{{Kind: "image", Data: []byte{0x89}}},
		}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.adv.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSectionByID(t *testing.T) {
	a := &Adventure{Sections: []*Section{{ID: 1, Name: "start"}, {ID: 4, Name: "cave"}}}
	if s := a.SectionByID(4); s == nil || s.Name != "cave" {
		t.Fatalf("expected cave, got %+v", s)
	}
	if s := a.SectionByID(2); s != nil {
		t.Fatalf("expected nil, got %+v", s)
	}
	if ref := a.Sections[1].Ref(); ref.ID != 4 || ref.Title != "cave" {
		t.Errorf("unexpected ref %+v", ref)
	}
}
