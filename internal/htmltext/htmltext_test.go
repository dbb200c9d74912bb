package htmltext

import (
	"strings"
	"testing"
)

func TestRenderEmpty(t *testing.T) {
	r := NewRenderer()
	got, err := r.Render("")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got != "" {
		t.Errorf("Render(\"\") = %q, want empty", got)
	}
}

func TestRenderStripsScriptsAndStyles(t *testing.T) {
	r := NewRenderer()
	html := `<html><head><style>p{color:red}</style></head>` +
		`<body><script>alert(1)</script><p>Hello</p></body></html>`

	got, err := r.Render(html)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got != "Hello" {
		t.Errorf("Render() = %q, want %q", got, "Hello")
	}
}

func TestRenderBlockElementsBecomeLines(t *testing.T) {
	r := NewRenderer()
	html := `<p>First paragraph</p><p>Second paragraph</p><ul><li>one</li><li>two</li></ul>`

	got, err := r.Render(html)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	lines := strings.Split(got, "\n")
	want := []string{"First paragraph", "Second paragraph", "one", "two"}
	if len(lines) != len(want) {
		t.Fatalf("Render() produced %d lines %q, want %d", len(lines), got, len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRenderNormalizesWhitespace(t *testing.T) {
	r := NewRenderer()
	html := "<div>too     many​​   spaces</div>"

	got, err := r.Render(html)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got != "too many spaces" {
		t.Errorf("Render() = %q", got)
	}
}
