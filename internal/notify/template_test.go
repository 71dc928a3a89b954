package notify

import (
	"strings"
	"testing"
)

func TestTemplateDefaultRendering(t *testing.T) {
	tpl, err := NewTemplate("")
	if err != nil {
		t.Fatalf("new template: %v", err)
	}
	content, err := tpl.Render(TemplateData{
		Tag:   "Line1.Temp",
		Limit: "High (H)",
		Value: "95.2",
		Time:  "2026-08-25T12:00:00Z",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Line1.Temp", "High (H)", "95.2", "2026-08-25T12:00:00Z"} {
		if !strings.Contains(content, want) {
			t.Fatalf("content missing %q:\n%s", want, content)
		}
	}
}

func TestTemplateRejectsBadSyntax(t *testing.T) {
	if _, err := NewTemplate("{{.Tag"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTemplateNilRender(t *testing.T) {
	var tpl *Template
	if _, err := tpl.Render(TemplateData{}); err == nil {
		t.Fatalf("expected error for nil template")
	}
}
