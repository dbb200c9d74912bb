// Package htmltext converts HTML email bodies into plain text suitable
// for the terminal preview pane.
package htmltext

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Renderer converts HTML to clean plain text.
type Renderer struct {
	whitespace *regexp.Regexp
	newlines   *regexp.Regexp
	invisible  *regexp.Regexp
}

// NewRenderer creates a Renderer with its cleanup patterns compiled.
func NewRenderer() *Renderer {
	return &Renderer{
		whitespace: regexp.MustCompile(`[^\S\n]+`),
		newlines:   regexp.MustCompile(`\n{3,}`),
		// Zero-width and other invisible Unicode characters common in
		// marketing mail.
		invisible: regexp.MustCompile(`[\x{200B}-\x{200D}\x{FEFF}\x{00AD}\x{2060}-\x{2064}\x{206A}-\x{206F}]+`),
	}
}

// Render converts an HTML document into plain text: scripts, styles,
// and head metadata are dropped, block elements become line breaks,
// and whitespace is normalized to at most one blank line in a row.
func (r *Renderer) Render(html string) (string, error) {
	if html == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, head, meta, link").Remove()

	doc.Find("p, div, br, h1, h2, h3, h4, h5, h6, li, tr, blockquote").Each(
		func(_ int, s *goquery.Selection) {
			s.PrependHtml("\n")
		},
	)

	text := doc.Text()
	text = r.invisible.ReplaceAllString(text, "")
	text = r.whitespace.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	clean := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			clean = append(clean, line)
		}
	}
	text = strings.Join(clean, "\n")
	text = r.newlines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text), nil
}
