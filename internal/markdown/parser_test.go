package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	p := NewParser()

	html, err := p.Render("Built with **Go**\n\n- fast\n- small")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{"<strong>Go</strong>", "<li>fast</li>"} {
		if !strings.Contains(html, want) {
			t.Errorf("Render output missing %q: %s", want, html)
		}
	}

	got, err := p.RenderOptional(nil)
	if err != nil || got != nil {
		t.Errorf("RenderOptional(nil) = %v, %v", got, err)
	}
}

func TestSplit(t *testing.T) {
	p := NewParser()
	source := "---\ntitle: Realtime Chat\ntechnologies:\n  - Go\n  - Redis\n---\n\nA chat server.\n"

	var meta struct {
		Title        string   `yaml:"title"`
		Technologies []string `yaml:"technologies"`
	}
	body, err := p.Split([]byte(source), &meta)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if meta.Title != "Realtime Chat" || len(meta.Technologies) != 2 {
		t.Errorf("meta = %+v", meta)
	}
	if body != "A chat server.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplitWithoutFrontmatter(t *testing.T) {
	p := NewParser()

	var meta map[string]any
	body, err := p.Split([]byte("just text"), &meta)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if body != "just text" || len(meta) != 0 {
		t.Errorf("body = %q meta = %v", body, meta)
	}
}
